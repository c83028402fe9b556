package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

var oldestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(listingsCollection)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Find(ctx context.Context, filter domainlistings.Filter) ([]*domainlistings.Listing, error) {
	cur, err := r.col.Find(ctx, listingFilter(filter), oldestFirst)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	out := make([]*domainlistings.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.DeletedCount == 0 {
		return domainlistings.ErrNotFound
	}
	return nil
}

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Find(ctx context.Context, filter domainbooking.Filter) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, bookingFilter(filter), oldestFirst)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	var docs []bookingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	out := make([]*domainbooking.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toAggregate())
	}
	return out, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbooking.Booking) error {
	if _, err := r.col.InsertOne(ctx, newBookingDocument(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("booking %s already exists: %w", b.ID, err)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domainbooking.Booking) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": string(b.ID)}, newBookingDocument(b))
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	return r.findOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toAggregate(), nil
}

// Save upserts the user; the unique email index turns a taken address into
// ErrEmailAlreadyUsed.
func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	doc := newUserDocument(user)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainuser.ErrEmailAlreadyUsed
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

var (
	_ domainlistings.Repository = (*ListingRepository)(nil)
	_ domainbooking.Repository  = (*BookingRepository)(nil)
	_ domainuser.Repository     = (*UserRepository)(nil)
)
