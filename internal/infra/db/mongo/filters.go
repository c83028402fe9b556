package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
)

// listingFilter mirrors domainlistings.Filter.Matches: case-insensitive
// substring location match and inclusive price bounds.
func listingFilter(f domainlistings.Filter) bson.M {
	q := bson.M{}
	if f.Host != "" {
		q["host_id"] = string(f.Host)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(loc), Options: "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = int64(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		price["$lte"] = int64(*f.MaxPrice)
	}
	if len(price) > 0 {
		q["nightly_rate_cents"] = price
	}
	if len(f.Exclude) > 0 {
		ids := make([]string, 0, len(f.Exclude))
		for _, id := range f.Exclude {
			ids = append(ids, string(id))
		}
		q["_id"] = bson.M{"$nin": ids}
	}
	return q
}

// bookingFilter mirrors domainbooking.Filter.Matches; overlap is half-open.
func bookingFilter(f domainbooking.Filter) bson.M {
	q := bson.M{}
	if f.ListingID != "" {
		q["listing_id"] = string(f.ListingID)
	}
	if f.GuestID != "" {
		q["guest_id"] = string(f.GuestID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q["status"] = bson.M{"$in": statuses}
	}
	if f.Overlapping != nil {
		q["check_in"] = bson.M{"$lt": f.Overlapping.CheckOut.UnixMilli()}
		q["check_out"] = bson.M{"$gt": f.Overlapping.CheckIn.UnixMilli()}
	}
	return q
}
