package listings

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	"staybook/internal/domain/availability"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

const searchCatalogKey = "listings.catalog"

// SearchCatalogQuery describes directory filters. Nil prices and zero dates
// do not filter; the date filter applies only when both dates are set.
type SearchCatalogQuery struct {
	Location string
	MinPrice *float64
	MaxPrice *float64
	CheckIn  time.Time
	CheckOut time.Time
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (*dto.ListingCollection, error) {
	filter := domainlistings.Filter{Location: q.Location}
	var err error
	if filter.MinPrice, err = priceBound("minPrice", q.MinPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = priceBound("maxPrice", q.MaxPrice); err != nil {
		return nil, err
	}
	withDates := !q.CheckIn.IsZero() && !q.CheckOut.IsZero()
	if withDates {
		if _, err := daterange.New(q.CheckIn, q.CheckOut); err != nil {
			return nil, err
		}
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if withDates {
		checker, err := availability.NewChecker(unit.Bookings())
		if err != nil {
			return nil, err
		}
		if filter.Exclude, err = checker.BlockedListings(ctx, q.CheckIn, q.CheckOut); err != nil {
			return nil, err
		}
	}

	found, err := unit.Listings().Find(ctx, filter.Normalized())
	if err != nil {
		return nil, err
	}
	hosts := newHostDirectory(unit.Users())
	items := make([]dto.Listing, 0, len(found))
	for _, l := range found {
		host, err := hosts.lookup(ctx, l.HostID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MapListing(l, host))
	}
	return &dto.ListingCollection{Items: items, Total: len(items)}, nil
}

func priceBound(field string, value *float64) (*money.Cents, error) {
	if value == nil {
		return nil, nil
	}
	cents, err := money.FromFloat(*value)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, field+" must be a non-negative number", err)
	}
	return &cents, nil
}

var _ queries.Handler[SearchCatalogQuery, *dto.ListingCollection] = (*SearchCatalogHandler)(nil)
