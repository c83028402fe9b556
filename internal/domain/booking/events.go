package booking

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

type BookingRequested struct {
	BookingID ID          `json:"bookingId"`
	ListingID listings.ID `json:"listingId"`
	GuestID   user.ID     `json:"guestId"`
	CheckIn   time.Time   `json:"checkIn"`
	CheckOut  time.Time   `json:"checkOut"`
	Guests    int         `json:"numberOfGuests"`
	Total     money.Cents `json:"totalCents"`
	At        time.Time   `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type StatusChanged struct {
	BookingID ID          `json:"bookingId"`
	ListingID listings.ID `json:"listingId"`
	From      Status      `json:"from"`
	To        Status      `json:"to"`
	At        time.Time   `json:"at"`
}

func (e StatusChanged) EventName() string     { return "booking.status_changed" }
func (e StatusChanged) AggregateID() string   { return string(e.BookingID) }
func (e StatusChanged) OccurredAt() time.Time { return e.At }

type BookingPaid struct {
	BookingID  ID          `json:"bookingId"`
	ListingID  listings.ID `json:"listingId"`
	PaymentRef string      `json:"paymentRef"`
	Amount     money.Cents `json:"amountCents"`
	At         time.Time   `json:"at"`
}

func (e BookingPaid) EventName() string     { return "booking.paid" }
func (e BookingPaid) AggregateID() string   { return string(e.BookingID) }
func (e BookingPaid) OccurredAt() time.Time { return e.At }
