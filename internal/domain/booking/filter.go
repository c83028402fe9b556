package booking

import (
	"slices"
	"strings"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

// Filter selects bookings. Zero values do not filter; Overlapping keeps only
// bookings whose stay intersects the given half-open range.
type Filter struct {
	ListingID   listings.ID
	GuestID     user.ID
	Statuses    []Status
	Overlapping *daterange.DateRange
}

// ActiveOverlapping selects the bookings that would block dr on a listing.
// An empty listing id matches every listing.
func ActiveOverlapping(listingID listings.ID, dr daterange.DateRange) Filter {
	return Filter{
		ListingID:   listingID,
		Statuses:    append([]Status(nil), ActiveStatuses...),
		Overlapping: &dr,
	}
}

func (f Filter) Matches(b *Booking) bool {
	if b == nil {
		return false
	}
	if f.ListingID != "" && b.ListingID != f.ListingID {
		return false
	}
	if f.GuestID != "" && b.GuestID != f.GuestID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}
	if f.Overlapping != nil && !b.Range.Overlaps(*f.Overlapping) {
		return false
	}
	return true
}

// SortNewestFirst orders bookings by creation time, newest first, breaking
// ties by id so results are stable.
func SortNewestFirst(items []*Booking) {
	slices.SortStableFunc(items, func(a, b *Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
}
