package me

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

const guestBookingsKey = "me.bookings"

type ListGuestBookingsQuery struct {
	Principal domainuser.Principal
}

func (q ListGuestBookingsQuery) Key() string { return guestBookingsKey }

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle returns the requestor's own bookings, newest first, each with the
// listing summary the guest sees.
func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) (*dto.BookingCollection, error) {
	if q.Principal.Anonymous() {
		return nil, apperr.Unauthorized("authentication required")
	}
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	found, err := unit.Bookings().Find(ctx, domainbooking.Filter{GuestID: q.Principal.ID})
	if err != nil {
		return nil, err
	}
	domainbooking.SortNewestFirst(found)

	listingsByID := make(map[domainlistings.ID]*domainlistings.Listing)
	items := make([]dto.Booking, 0, len(found))
	for _, b := range found {
		listing, ok := listingsByID[b.ListingID]
		if !ok {
			listing, err = unit.Listings().ByID(ctx, b.ListingID)
			if err != nil && !errors.Is(err, domainlistings.ErrNotFound) {
				return nil, err
			}
			listingsByID[b.ListingID] = listing
		}
		items = append(items, dto.MapGuestBooking(b, listing))
	}
	return &dto.BookingCollection{Items: items}, nil
}

var _ queries.Handler[ListGuestBookingsQuery, *dto.BookingCollection] = (*ListGuestBookingsHandler)(nil)
