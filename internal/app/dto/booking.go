package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
)

// BookingListingSnapshot is the listing summary embedded in booking views.
// Only the id is set when the listing was not requested or no longer exists.
type BookingListingSnapshot struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Location    string   `json:"location,omitempty"`
	Images      []string `json:"images,omitempty"`
	NightlyRate float64  `json:"pricePerNight,omitempty"`
}

// BookingUserSnapshot is the guest summary embedded in booking views.
type BookingUserSnapshot struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type Booking struct {
	ID         string                 `json:"id"`
	Listing    BookingListingSnapshot `json:"listing"`
	User       BookingUserSnapshot    `json:"user"`
	CheckIn    time.Time              `json:"checkInDate"`
	CheckOut   time.Time              `json:"checkOutDate"`
	Guests     int                    `json:"numberOfGuests"`
	TotalPrice float64                `json:"totalPrice"`
	Status     string                 `json:"status"`
	PaymentRef string                 `json:"paymentRef,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

type BookingCollection struct {
	Items []Booking `json:"items"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:         string(b.ID),
		Listing:    BookingListingSnapshot{ID: string(b.ListingID)},
		User:       BookingUserSnapshot{ID: string(b.GuestID)},
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.Total.Float(),
		Status:     string(b.Status),
		PaymentRef: b.PaymentRef,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// MapGuestBooking embeds the listing summary shown on the guest's own bookings
// page: title, location, images and nightly rate.
func MapGuestBooking(b *domainbooking.Booking, listing *domainlistings.Listing) Booking {
	out := MapBooking(b)
	if listing != nil {
		out.Listing.Title = listing.Title
		out.Listing.Location = listing.Location
		out.Listing.Images = append([]string(nil), listing.Images...)
		out.Listing.NightlyRate = listing.NightlyRate.Float()
	}
	return out
}

// MapAdminBooking embeds guest (username, email) and listing (title,
// location) summaries.
func MapAdminBooking(b *domainbooking.Booking, listing *domainlistings.Listing, guest *domainuser.User) Booking {
	out := MapBooking(b)
	if listing != nil {
		out.Listing.Title = listing.Title
		out.Listing.Location = listing.Location
	}
	if guest != nil {
		out.User.Username = guest.Username
		out.User.Email = guest.Email
	}
	return out
}
