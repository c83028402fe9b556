package listings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

var (
	ErrListingNotOwned = apperr.Forbidden("not authorized to manage this listing")
	ErrHostRoleNeeded  = apperr.Forbidden("only hosts or admins can create listings")
	ErrAuthRequired    = apperr.Unauthorized("authentication required")
)

// Deps carries the collaborators shared by listing command handlers.
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

func (d Deps) publish(ctx context.Context, l *domainlistings.Listing) error {
	return outbox.Record(ctx, d.Outbox, d.Encoder, l.DrainEvents())
}

// loadManaged loads a listing the principal may modify.
func loadManaged(ctx context.Context, unit uow.UnitOfWork, id string, p domainuser.Principal) (*domainlistings.Listing, error) {
	if p.Anonymous() {
		return nil, ErrAuthRequired
	}
	listing, err := unit.Listings().ByID(ctx, domainlistings.ID(id))
	if err != nil {
		return nil, err
	}
	if !domainuser.CanManage(listing.HostID, p) {
		return nil, ErrListingNotOwned
	}
	return listing, nil
}

// hostDirectory resolves and caches public host identities.
type hostDirectory struct {
	users domainuser.Repository
	cache map[domainuser.ID]*domainuser.User
}

func newHostDirectory(users domainuser.Repository) *hostDirectory {
	return &hostDirectory{users: users, cache: map[domainuser.ID]*domainuser.User{}}
}

func (d *hostDirectory) lookup(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	if u, ok := d.cache[id]; ok {
		return u, nil
	}
	u, err := d.users.ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domainuser.ErrNotFound) {
			return nil, err
		}
		u = nil
	}
	d.cache[id] = u
	return u, nil
}
