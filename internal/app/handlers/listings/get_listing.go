package listings

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
)

const getListingKey = "listings.get"

type GetListingQuery struct {
	ListingID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (*dto.Listing, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ID(q.ListingID))
	if err != nil {
		return nil, err
	}
	host, err := newHostDirectory(unit.Users()).lookup(ctx, listing.HostID)
	if err != nil {
		return nil, err
	}
	out := dto.MapListing(listing, host)
	return &out, nil
}

var _ queries.Handler[GetListingQuery, *dto.Listing] = (*GetListingHandler)(nil)
