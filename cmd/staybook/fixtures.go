package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	authsvc "staybook/internal/app/services/auth"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

type fixtureFile struct {
	Users    []userFixture    `json:"users"`
	Listings []listingFixture `json:"listings"`
}

type userFixture struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type listingFixture struct {
	ID            string   `json:"id"`
	Host          string   `json:"host"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	PricePerNight float64  `json:"pricePerNight"`
	Guests        int      `json:"guests"`
	Bedrooms      *int     `json:"bedrooms"`
	Beds          *int     `json:"beds"`
	Bathrooms     *int     `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
}

// loadFixtures seeds users (the only way to create admins) and listings.
// Records that already exist are left untouched, so reloading is safe.
func loadFixtures(ctx context.Context, path string, factory uow.UoWFactory, hasher authsvc.PasswordHasher, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("fixtures file empty", "path", path)
		return nil
	}
	var fixtures fixtureFile
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	_, err = uow.Run(ctx, factory, func(txCtx context.Context, unit uow.UnitOfWork) (struct{}, error) {
		now := time.Now().UTC()
		if err := seedUsers(txCtx, unit, fixtures.Users, hasher, now, logger); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, seedListings(txCtx, unit, fixtures.Listings, now, logger)
	})
	return err
}

func seedUsers(ctx context.Context, unit uow.UnitOfWork, users []userFixture, hasher authsvc.PasswordHasher, now time.Time, logger *slog.Logger) error {
	for _, fx := range users {
		if _, err := unit.Users().ByID(ctx, domainuser.ID(fx.ID)); err == nil {
			continue
		} else if !errors.Is(err, domainuser.ErrNotFound) {
			return err
		}
		role, err := domainuser.ParseRole(fx.Role)
		if err != nil {
			logger.Error("fixture user invalid", "user_id", fx.ID, "error", err)
			continue
		}
		hash, err := hasher.Hash(fx.Password)
		if err != nil {
			return fmt.Errorf("hash fixture password: %w", err)
		}
		user, err := domainuser.NewUser(domainuser.CreateParams{
			ID:           domainuser.ID(fx.ID),
			Username:     fx.Username,
			Email:        fx.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
		})
		if err != nil {
			logger.Error("fixture user invalid", "user_id", fx.ID, "error", err)
			continue
		}
		if err := unit.Users().Save(ctx, user); err != nil {
			return fmt.Errorf("store fixture user %s: %w", fx.ID, err)
		}
		logger.Info("user fixture imported", "user_id", user.ID, "role", user.Role)
	}
	return nil
}

func seedListings(ctx context.Context, unit uow.UnitOfWork, listings []listingFixture, now time.Time, logger *slog.Logger) error {
	for _, fx := range listings {
		if _, err := unit.Listings().ByID(ctx, domainlistings.ID(fx.ID)); err == nil {
			continue
		} else if !errors.Is(err, domainlistings.ErrNotFound) {
			return err
		}
		rate, err := money.FromFloat(fx.PricePerNight)
		if err != nil {
			logger.Error("fixture listing invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		listing, err := domainlistings.NewListing(domainlistings.CreateParams{
			ID:          domainlistings.ID(fx.ID),
			HostID:      domainuser.ID(fx.Host),
			Title:       fx.Title,
			Description: fx.Description,
			Location:    fx.Location,
			NightlyRate: rate,
			MaxGuests:   fx.Guests,
			Bedrooms:    fx.Bedrooms,
			Beds:        fx.Beds,
			Bathrooms:   fx.Bathrooms,
			Amenities:   fx.Amenities,
			Images:      fx.Images,
			Now:         now,
		})
		if err != nil {
			logger.Error("fixture listing invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return fmt.Errorf("store fixture listing %s: %w", fx.ID, err)
		}
		logger.Info("listing fixture imported", "listing_id", listing.ID)
	}
	return nil
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "fixtures.json"),
		filepath.Join("..", "..", "data", "fixtures.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
