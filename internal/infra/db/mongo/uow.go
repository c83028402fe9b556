package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

const writeConflictCode = 112

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	listings *ListingRepository
	bookings *BookingRepository
	users    *UserRepository
	locks    *mongo.Collection
}

func NewFactory(db *mongo.Database) *Factory {
	return &Factory{
		DB:       db,
		listings: NewListingRepository(db),
		bookings: NewBookingRepository(db),
		users:    NewUserRepository(db),
		locks:    db.Collection(listingLockCollection),
	}
}

// Begin starts a session. Write units run inside a snapshot transaction;
// read-only units read without one.
func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f == nil || f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	unit := &Unit{factory: f}
	if opts.ReadOnly {
		return unit, nil
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.session = session
	return unit, nil
}

type Unit struct {
	factory *Factory
	session mongo.Session
}

func (u *Unit) Listings() domainlistings.Repository { return u.factory.listings }
func (u *Unit) Bookings() domainbooking.Repository  { return u.factory.bookings }
func (u *Unit) Users() domainuser.Repository        { return u.factory.users }

func (u *Unit) Commit(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return translateConflict(err)
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	if u.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, u.session)
}

// LockListing bumps the listing's lock document inside the transaction. A
// concurrent transaction that already bumped it makes this write fail with a
// write conflict, reported as a booking conflict.
func (u *Unit) LockListing(ctx context.Context, id domainlistings.ID) error {
	if u.session == nil {
		return errors.New("mongo: listing lock requires a write unit")
	}
	sctx := mongo.NewSessionContext(ctx, u.session)
	_, err := u.factory.locks.UpdateOne(sctx,
		bson.M{"_id": string(id)},
		bson.M{"$inc": bson.M{"version": 1}, "$set": bson.M{"locked_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return translateConflict(err)
}

func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	if isWriteConflict(err) {
		return domainbooking.ErrConflict
	}
	return err
}

func isWriteConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == writeConflictCode || cmdErr.HasErrorLabel("TransientTransactionError")
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == writeConflictCode {
				return true
			}
		}
		return writeErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}

var (
	_ uow.UoWFactory = (*Factory)(nil)
	_ uow.Locker     = (*Unit)(nil)
)
