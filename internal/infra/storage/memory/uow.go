package memory

import (
	"context"
	"errors"
	"sync"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

var (
	ErrReadOnlyUnit = errors.New("memory: write attempted in read-only unit of work")
	ErrUnitClosed   = errors.New("memory: unit of work already finished")
)

// Store wires the in-memory repositories into unit-of-work boundaries. Write
// units are serialised by a store-wide writer slot held from Begin until
// Commit or Rollback; rollback replays an undo journal.
type Store struct {
	Listings *ListingRepository
	Bookings *BookingRepository
	Users    *UserRepository

	writer chan struct{}
}

func NewStore() *Store {
	return &Store{
		Listings: NewListingRepository(),
		Bookings: NewBookingRepository(),
		Users:    NewUserRepository(),
		writer:   make(chan struct{}, 1),
	}
}

// Begin opens a unit. Waiting for the writer slot honours ctx cancellation.
func (s *Store) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if !opts.ReadOnly {
		select {
		case s.writer <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Unit{store: s, readOnly: opts.ReadOnly}, nil
}

// Unit is a uow.UnitOfWork over the in-memory store.
type Unit struct {
	store    *Store
	readOnly bool

	mu   sync.Mutex
	undo []func()
	done bool
}

func (u *Unit) Listings() domainlistings.Repository { return unitListings{u} }
func (u *Unit) Bookings() domainbooking.Repository  { return unitBookings{u} }
func (u *Unit) Users() domainuser.Repository        { return unitUsers{u} }

func (u *Unit) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return ErrUnitClosed
	}
	u.undo = nil
	u.finish()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	u.finish()
	return nil
}

// OnRollback registers compensation for side effects outside the repositories.
func (u *Unit) OnRollback(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.done {
		u.undo = append(u.undo, fn)
	}
}

func (u *Unit) finish() {
	u.done = true
	if !u.readOnly {
		<-u.store.writer
	}
}

func (u *Unit) writable() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return ErrUnitClosed
	}
	if u.readOnly {
		return ErrReadOnlyUnit
	}
	return nil
}

// write applies op and journals its undo only when op succeeded.
func (u *Unit) write(op func() error, undo func()) error {
	if err := u.writable(); err != nil {
		return err
	}
	if err := op(); err != nil {
		return err
	}
	u.mu.Lock()
	u.undo = append(u.undo, undo)
	u.mu.Unlock()
	return nil
}

type unitListings struct{ u *Unit }

func (r unitListings) ByID(ctx context.Context, id domainlistings.ID) (*domainlistings.Listing, error) {
	return r.u.store.Listings.ByID(ctx, id)
}

func (r unitListings) Find(ctx context.Context, f domainlistings.Filter) ([]*domainlistings.Listing, error) {
	return r.u.store.Listings.Find(ctx, f)
}

func (r unitListings) Save(ctx context.Context, l *domainlistings.Listing) error {
	repo := r.u.store.Listings
	prev := repo.snapshot(l.ID)
	return r.u.write(func() error { return repo.Save(ctx, l) }, func() { repo.restore(l.ID, prev) })
}

func (r unitListings) Delete(ctx context.Context, id domainlistings.ID) error {
	repo := r.u.store.Listings
	prev := repo.snapshot(id)
	return r.u.write(func() error { return repo.Delete(ctx, id) }, func() { repo.restore(id, prev) })
}

type unitBookings struct{ u *Unit }

func (r unitBookings) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	return r.u.store.Bookings.ByID(ctx, id)
}

func (r unitBookings) Find(ctx context.Context, f domainbooking.Filter) ([]*domainbooking.Booking, error) {
	return r.u.store.Bookings.Find(ctx, f)
}

func (r unitBookings) Insert(ctx context.Context, b *domainbooking.Booking) error {
	repo := r.u.store.Bookings
	id := b.ID
	return r.u.write(func() error { return repo.Insert(ctx, b) }, func() { repo.restore(id, nil) })
}

func (r unitBookings) Update(ctx context.Context, b *domainbooking.Booking) error {
	repo := r.u.store.Bookings
	prev := repo.snapshot(b.ID)
	return r.u.write(func() error { return repo.Update(ctx, b) }, func() { repo.restore(b.ID, prev) })
}

type unitUsers struct{ u *Unit }

func (r unitUsers) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return r.u.store.Users.ByID(ctx, id)
}

func (r unitUsers) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.u.store.Users.ByEmail(ctx, email)
}

func (r unitUsers) Save(ctx context.Context, user *domainuser.User) error {
	repo := r.u.store.Users
	prev := repo.snapshot(user.ID)
	return r.u.write(func() error { return repo.Save(ctx, user) }, func() { repo.restore(user.ID, prev) })
}

var (
	_ uow.UoWFactory = (*Store)(nil)
	_ uow.UnitOfWork = (*Unit)(nil)
)
