package mongo

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
)

type listingDocument struct {
	ID          string   `bson:"_id"`
	HostID      string   `bson:"host_id"`
	Title       string   `bson:"title"`
	Description string   `bson:"description"`
	Location    string   `bson:"location"`
	NightlyRate int64    `bson:"nightly_rate_cents"`
	MaxGuests   int      `bson:"max_guests"`
	Bedrooms    int      `bson:"bedrooms"`
	Beds        int      `bson:"beds"`
	Bathrooms   int      `bson:"bathrooms"`
	Amenities   []string `bson:"amenities"`
	Images      []string `bson:"images"`
	CreatedAt   int64    `bson:"created_at"`
	UpdatedAt   int64    `bson:"updated_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:          string(l.ID),
		HostID:      string(l.HostID),
		Title:       l.Title,
		Description: l.Description,
		Location:    l.Location,
		NightlyRate: int64(l.NightlyRate),
		MaxGuests:   l.MaxGuests,
		Bedrooms:    l.Bedrooms,
		Beds:        l.Beds,
		Bathrooms:   l.Bathrooms,
		Amenities:   l.Amenities,
		Images:      l.Images,
		CreatedAt:   l.CreatedAt.UnixMilli(),
		UpdatedAt:   l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:          domainlistings.ID(d.ID),
		HostID:      domainuser.ID(d.HostID),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		NightlyRate: money.Cents(d.NightlyRate),
		MaxGuests:   d.MaxGuests,
		Bedrooms:    d.Bedrooms,
		Beds:        d.Beds,
		Bathrooms:   d.Bathrooms,
		Amenities:   d.Amenities,
		Images:      d.Images,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
}

type bookingDocument struct {
	ID         string `bson:"_id"`
	ListingID  string `bson:"listing_id"`
	GuestID    string `bson:"guest_id"`
	CheckIn    int64  `bson:"check_in"`
	CheckOut   int64  `bson:"check_out"`
	Guests     int    `bson:"guests"`
	Total      int64  `bson:"total_cents"`
	Status     string `bson:"status"`
	PaymentRef string `bson:"payment_ref,omitempty"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		ListingID:  string(b.ListingID),
		GuestID:    string(b.GuestID),
		CheckIn:    b.Range.CheckIn.UnixMilli(),
		CheckOut:   b.Range.CheckOut.UnixMilli(),
		Guests:     b.Guests,
		Total:      int64(b.Total),
		Status:     string(b.Status),
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:         domainbooking.ID(d.ID),
		ListingID:  domainlistings.ID(d.ListingID),
		GuestID:    domainuser.ID(d.GuestID),
		Range:      daterange.DateRange{CheckIn: timestampToTime(d.CheckIn), CheckOut: timestampToTime(d.CheckOut)},
		Guests:     d.Guests,
		Total:      money.Cents(d.Total),
		Status:     domainbooking.Status(d.Status),
		PaymentRef: d.PaymentRef,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

type userDocument struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Username:     u.Username,
		Email:        domainuser.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         domainuser.Role(d.Role),
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
