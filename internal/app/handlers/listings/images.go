package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/policies"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const addListingImageKey = "host.listings.images.add"

var (
	ErrImageStoreUnavailable = errors.New("listings: image store unavailable")
	ErrImageRequired         = apperr.Validation("image file is required")
	ErrImageContentType      = apperr.Validation("only image uploads are accepted")
)

type AddListingImageCommand struct {
	Principal   domainuser.Principal
	ListingID   string `validate:"required"`
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

func (c AddListingImageCommand) Key() string { return addListingImageKey }

type AddListingImageHandler struct {
	Deps
	Images policies.ImageStore
	Logger *slog.Logger
}

func (h *AddListingImageHandler) Handle(ctx context.Context, cmd AddListingImageCommand) (*dto.Listing, error) {
	if h.Images == nil {
		return nil, ErrImageStoreUnavailable
	}
	if cmd.Reader == nil || cmd.Size <= 0 {
		return nil, ErrImageRequired
	}
	if !strings.HasPrefix(strings.ToLower(cmd.ContentType), "image/") {
		return nil, ErrImageContentType
	}

	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	listing, err := loadManaged(ctx, unit, cmd.ListingID, cmd.Principal)
	if err != nil {
		return nil, err
	}

	objectKey := path.Join("listings", string(listing.ID), uuid.NewString()+strings.ToLower(path.Ext(cmd.Filename)))
	url, err := h.Images.Upload(ctx, objectKey, cmd.Reader, cmd.Size, cmd.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	listing.AddImage(url, h.now())
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
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "listing image uploaded", "listing_id", listing.ID, "object_key", objectKey)
	}
	out := dto.MapListing(listing, host)
	return &out, nil
}

var _ commands.Handler[AddListingImageCommand, *dto.Listing] = (*AddListingImageHandler)(nil)
