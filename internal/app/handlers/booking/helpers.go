package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

var ErrAuthenticationRequired = apperr.Unauthorized("authentication required")

// Deps carries the collaborators shared by booking command handlers.
type Deps struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
	NewID      func() string
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) newID() string {
	if d.NewID != nil {
		return d.NewID()
	}
	return uuid.NewString()
}

func (d Deps) publish(ctx context.Context, b *domainbooking.Booking) error {
	return outbox.Record(ctx, d.Outbox, d.Encoder, b.DrainEvents())
}

func requirePrincipal(p domainuser.Principal) error {
	if p.Anonymous() {
		return ErrAuthenticationRequired
	}
	return nil
}

// loadWithHost returns the booking and the host of its listing. A booking
// whose listing was removed has no host and only admins may manage it.
func loadWithHost(ctx context.Context, unit uow.UnitOfWork, id string) (*domainbooking.Booking, domainuser.ID, error) {
	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(id))
	if err != nil {
		return nil, "", err
	}
	listing, err := unit.Listings().ByID(ctx, b.ListingID)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return b, "", nil
		}
		return nil, "", err
	}
	return b, listing.HostID, nil
}
