package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	listingsCollection    = "listings"
	bookingsCollection    = "bookings"
	usersCollection       = "users"
	listingLockCollection = "listing_locks"
)

type Client struct {
	DB *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes queries rely on. It is idempotent.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	models := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		listingsCollection: {
			{Keys: bson.D{{Key: "host_id", Value: 1}}},
			{Keys: bson.D{{Key: "nightly_rate_cents", Value: 1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}, {Key: "check_in", Value: 1}}},
			{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for name, idx := range models {
		if _, err := c.DB.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
