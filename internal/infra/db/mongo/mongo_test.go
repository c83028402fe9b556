package mongo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func TestListingFilter(t *testing.T) {
	lo, hi := money.Cents(5000), money.Cents(10000)
	q := listingFilter(domainlistings.Filter{
		Host:     "h1",
		Location: " Lake (Tahoe) ",
		MinPrice: &lo,
		MaxPrice: &hi,
		Exclude:  []domainlistings.ID{"a", "b"},
	})
	if q["host_id"] != "h1" {
		t.Fatalf("host filter missing: %v", q)
	}
	re, ok := q["location"].(primitive.Regex)
	if !ok || re.Pattern != `Lake \(Tahoe\)` || re.Options != "i" {
		t.Fatalf("location must be an escaped case-insensitive regex, got %#v", q["location"])
	}
	price := q["nightly_rate_cents"].(bson.M)
	if price["$gte"] != int64(5000) || price["$lte"] != int64(10000) {
		t.Fatalf("unexpected price bounds %v", price)
	}
	ids := q["_id"].(bson.M)["$nin"].([]string)
	if len(ids) != 2 || ids[1] != "b" {
		t.Fatalf("unexpected exclusion %v", ids)
	}
	if len(listingFilter(domainlistings.Filter{})) != 0 {
		t.Fatalf("empty filter must match everything")
	}
}

func TestBookingFilterOverlap(t *testing.T) {
	dr, err := daterange.New(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	q := bookingFilter(domainbooking.ActiveOverlapping("L", dr))
	if q["listing_id"] != "L" {
		t.Fatalf("listing filter missing: %v", q)
	}
	statuses := q["status"].(bson.M)["$in"].([]string)
	if len(statuses) != 2 || statuses[0] != "pending" || statuses[1] != "confirmed" {
		t.Fatalf("unexpected statuses %v", statuses)
	}
	if q["check_in"].(bson.M)["$lt"] != dr.CheckOut.UnixMilli() || q["check_out"].(bson.M)["$gt"] != dr.CheckIn.UnixMilli() {
		t.Fatalf("overlap must be half-open: %v", q)
	}
}

func TestDocumentsRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	dr, _ := daterange.New(now.AddDate(0, 1, 0), now.AddDate(0, 1, 3))
	b := &domainbooking.Booking{ID: "b1", ListingID: "L", GuestID: "g", Range: dr, Guests: 2, Total: 15000, Status: domainbooking.StatusConfirmed, PaymentRef: "pay_1", CreatedAt: now, UpdatedAt: now}
	got := newBookingDocument(b).toAggregate()
	if !got.Range.CheckIn.Equal(dr.CheckIn) || !got.Range.CheckOut.Equal(dr.CheckOut) || got.Total != b.Total || got.Status != b.Status || !got.CreatedAt.Equal(now) || got.PaymentRef != "pay_1" {
		t.Fatalf("booking document lost data: %+v", got)
	}
}

func TestWriteConflictTranslation(t *testing.T) {
	conflict := mongo.CommandError{Code: writeConflictCode, Message: "WriteConflict"}
	if !errors.Is(translateConflict(fmt.Errorf("lock: %w", conflict)), domainbooking.ErrConflict) {
		t.Fatalf("write conflict must map to booking conflict")
	}
	labelled := mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}
	if !errors.Is(translateConflict(labelled), domainbooking.ErrConflict) {
		t.Fatalf("transient transaction errors must map to booking conflict")
	}
	other := errors.New("network down")
	if translateConflict(other) != other || translateConflict(nil) != nil {
		t.Fatalf("other errors pass through")
	}
}
