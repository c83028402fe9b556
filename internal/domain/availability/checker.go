package availability

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
)

var ErrBookingsRequired = errors.New("availability: booking finder required")

// BookingFinder is the read side of the booking store the checker needs.
type BookingFinder interface {
	Find(ctx context.Context, filter booking.Filter) ([]*booking.Booking, error)
}

// Checker answers calendar questions from active bookings only. A stay
// [a,b) conflicts with [c,d) iff a < d and c < b.
type Checker struct {
	bookings BookingFinder
}

func NewChecker(bookings BookingFinder) (*Checker, error) {
	if bookings == nil {
		return nil, ErrBookingsRequired
	}
	return &Checker{bookings: bookings}, nil
}

// FindConflicts returns the active bookings on the listing overlapping the stay.
func (c *Checker) FindConflicts(ctx context.Context, listingID listings.ID, checkIn, checkOut time.Time) ([]*booking.Booking, error) {
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	found, err := c.bookings.Find(ctx, booking.ActiveOverlapping(listingID, dr))
	if err != nil {
		return nil, err
	}
	// Stores may over-select; the half-open rule is authoritative.
	out := found[:0]
	for _, b := range found {
		if b.ListingID == listingID && b.Status.IsActive() && b.Range.Overlaps(dr) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Checker) IsAvailable(ctx context.Context, listingID listings.ID, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := c.FindConflicts(ctx, listingID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// BlockedListings returns every listing that has an active booking
// overlapping the stay.
func (c *Checker) BlockedListings(ctx context.Context, checkIn, checkOut time.Time) ([]listings.ID, error) {
	dr, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	found, err := c.bookings.Find(ctx, booking.ActiveOverlapping("", dr))
	if err != nil {
		return nil, err
	}
	seen := make(map[listings.ID]struct{}, len(found))
	var out []listings.ID
	for _, b := range found {
		if !b.Status.IsActive() || !b.Range.Overlaps(dr) {
			continue
		}
		if _, ok := seen[b.ListingID]; ok {
			continue
		}
		seen[b.ListingID] = struct{}{}
		out = append(out, b.ListingID)
	}
	return out, nil
}
