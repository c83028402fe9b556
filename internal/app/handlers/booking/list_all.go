package booking

import (
	"context"
	"errors"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const listAllKey = "booking.list_all"

var ErrAdminOnly = apperr.Forbidden("only admins can list all bookings")

type ListAllQuery struct {
	Principal domainuser.Principal
}

func (q ListAllQuery) Key() string { return listAllKey }

type ListAllHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListAllHandler) Handle(ctx context.Context, q ListAllQuery) (*dto.BookingCollection, error) {
	if err := requirePrincipal(q.Principal); err != nil {
		return nil, err
	}
	if !q.Principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	found, err := unit.Bookings().Find(ctx, domainbooking.Filter{})
	if err != nil {
		return nil, err
	}
	domainbooking.SortNewestFirst(found)

	listingCache := map[domainlistings.ID]*domainlistings.Listing{}
	userCache := map[domainuser.ID]*domainuser.User{}
	items := make([]dto.Booking, 0, len(found))
	for _, b := range found {
		listing, err := cachedListing(ctx, unit, listingCache, b.ListingID)
		if err != nil {
			return nil, err
		}
		guest, ok := userCache[b.GuestID]
		if !ok {
			guest, err = unit.Users().ByID(ctx, b.GuestID)
			if err != nil && !errors.Is(err, domainuser.ErrNotFound) {
				return nil, err
			}
			userCache[b.GuestID] = guest
		}
		items = append(items, dto.MapAdminBooking(b, listing, guest))
	}
	return &dto.BookingCollection{Items: items}, nil
}

// cachedListing tolerates listings removed after the booking was made.
func cachedListing(ctx context.Context, unit uow.UnitOfWork, cache map[domainlistings.ID]*domainlistings.Listing, id domainlistings.ID) (*domainlistings.Listing, error) {
	if l, ok := cache[id]; ok {
		return l, nil
	}
	l, err := unit.Listings().ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domainlistings.ErrNotFound) {
			return nil, err
		}
		l = nil
	}
	cache[id] = l
	return l, nil
}

var _ queries.Handler[ListAllQuery, *dto.BookingCollection] = (*ListAllHandler)(nil)
