package listings

import (
	"context"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

const (
	createListingKey = "host.listings.create"
	updateListingKey = "host.listings.update"
	deleteListingKey = "host.listings.delete"
)

type CreateListingCommand struct {
	Principal     domainuser.Principal `json:"-"`
	Title         string               `json:"title" validate:"required"`
	Description   string               `json:"description" validate:"required"`
	Location      string               `json:"location" validate:"required"`
	PricePerNight *float64             `json:"pricePerNight" validate:"required,gte=0"`
	Guests        int                  `json:"guests" validate:"min=1"`
	Bedrooms      *int                 `json:"bedrooms" validate:"omitempty,gte=0"`
	Beds          *int                 `json:"beds" validate:"omitempty,gte=0"`
	Bathrooms     *int                 `json:"bathrooms" validate:"omitempty,gte=0"`
	Amenities     []string             `json:"amenities"`
	Images        []string             `json:"images"`
}

func (c CreateListingCommand) Key() string { return createListingKey }

type CreateListingHandler struct {
	Deps
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*dto.Listing, error) {
	if cmd.Principal.Anonymous() {
		return nil, ErrAuthRequired
	}
	if !domainuser.CanHost(cmd.Principal) {
		return nil, ErrHostRoleNeeded
	}
	if cmd.PricePerNight == nil {
		return nil, apperr.Validation("pricePerNight is required")
	}
	rate, err := money.FromFloat(*cmd.PricePerNight)
	if err != nil {
		return nil, domainlistings.ErrNightlyRate
	}

	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ID(h.newID()),
		HostID:      cmd.Principal.ID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Location:    cmd.Location,
		NightlyRate: rate,
		MaxGuests:   cmd.Guests,
		Bedrooms:    cmd.Bedrooms,
		Beds:        cmd.Beds,
		Bathrooms:   cmd.Bathrooms,
		Amenities:   cmd.Amenities,
		Images:      cmd.Images,
		Now:         h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, listing); err != nil {
		return nil, err
	}
	host, err := newHostDirectory(unit.Users()).lookup(ctx, listing.HostID)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	out := dto.MapListing(listing, host)
	return &out, nil
}

// UpdateListingCommand is a partial update: absent fields keep their value.
type UpdateListingCommand struct {
	Principal     domainuser.Principal `json:"-"`
	ListingID     string               `json:"-" validate:"required"`
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Location      *string              `json:"location"`
	PricePerNight *float64             `json:"pricePerNight" validate:"omitempty,gte=0"`
	Guests        *int                 `json:"guests" validate:"omitempty,min=1"`
	Bedrooms      *int                 `json:"bedrooms" validate:"omitempty,gte=0"`
	Beds          *int                 `json:"beds" validate:"omitempty,gte=0"`
	Bathrooms     *int                 `json:"bathrooms" validate:"omitempty,gte=0"`
	Amenities     []string             `json:"amenities"`
	Images        []string             `json:"images"`
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

type UpdateListingHandler struct {
	Deps
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*dto.Listing, error) {
	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	listing, err := loadManaged(ctx, unit, cmd.ListingID, cmd.Principal)
	if err != nil {
		return nil, err
	}
	params := domainlistings.UpdateParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		Location:    cmd.Location,
		MaxGuests:   cmd.Guests,
		Bedrooms:    cmd.Bedrooms,
		Beds:        cmd.Beds,
		Bathrooms:   cmd.Bathrooms,
		Amenities:   cmd.Amenities,
		Images:      cmd.Images,
		Now:         h.now(),
	}
	if cmd.PricePerNight != nil {
		rate, err := money.FromFloat(*cmd.PricePerNight)
		if err != nil {
			return nil, domainlistings.ErrNightlyRate
		}
		params.NightlyRate = &rate
	}
	if err := listing.Update(params); err != nil {
		return nil, err
	}
	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, listing); err != nil {
		return nil, err
	}
	host, err := newHostDirectory(unit.Users()).lookup(ctx, listing.HostID)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	out := dto.MapListing(listing, host)
	return &out, nil
}

type DeleteListingCommand struct {
	Principal domainuser.Principal `json:"-"`
	ListingID string               `json:"-" validate:"required"`
}

func (c DeleteListingCommand) Key() string { return deleteListingKey }

type DeleteListingResult struct {
	Message string `json:"message"`
}

type DeleteListingHandler struct {
	Deps
}

// Handle removes the listing record. Its bookings are kept as history.
func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (*DeleteListingResult, error) {
	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	listing, err := loadManaged(ctx, unit, cmd.ListingID, cmd.Principal)
	if err != nil {
		return nil, err
	}
	listing.MarkDeleted(h.now())
	if err := unit.Listings().Delete(ctx, listing.ID); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, listing); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return &DeleteListingResult{Message: "Listing removed"}, nil
}

var (
	_ commands.Handler[CreateListingCommand, *dto.Listing]         = (*CreateListingHandler)(nil)
	_ commands.Handler[UpdateListingCommand, *dto.Listing]         = (*UpdateListingHandler)(nil)
	_ commands.Handler[DeleteListingCommand, *DeleteListingResult] = (*DeleteListingHandler)(nil)
)
