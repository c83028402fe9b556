package booking

import (
	"context"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound       = apperr.NotFound("booking not found")
	ErrInvalidGuests  = apperr.Validation("number of guests must be at least 1")
	ErrInvalidStatus  = apperr.Validation("status must be one of pending, confirmed, cancelled, completed")
	ErrPastDate       = apperr.PastDate("check-in date cannot be in the past")
	ErrConflict       = apperr.Conflict("listing is already booked for the selected dates")
	ErrNotCancellable = apperr.Validation("only pending or confirmed bookings can be cancelled")
	ErrNotPayable     = apperr.Validation("only pending bookings can be paid")
	ErrNegativeTotal  = apperr.Validation("total price must be non-negative")
)

type ID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses occupy the listing calendar.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Booking struct {
	ID         ID
	ListingID  listings.ID
	GuestID    user.ID
	Range      daterange.DateRange
	Guests     int
	Total      money.Cents
	Status     Status
	PaymentRef string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	Find(ctx context.Context, filter Filter) ([]*Booking, error)
	Insert(ctx context.Context, booking *Booking) error
	Update(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID        ID
	ListingID listings.ID
	GuestID   user.ID
	Range     daterange.DateRange
	Guests    int
	Total     money.Cents
	CreatedAt time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" || params.ListingID == "" || params.GuestID == "" {
		return nil, apperr.Validation("booking id, listing and guest are required")
	}
	if params.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Total < 0 {
		return nil, ErrNegativeTotal
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		Total:     params.Total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID,
		ListingID: b.ListingID,
		GuestID:   b.GuestID,
		CheckIn:   b.Range.CheckIn,
		CheckOut:  b.Range.CheckOut,
		Guests:    b.Guests,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}

// ValidateCheckIn rejects stays whose check-in instant is already behind now.
func ValidateCheckIn(checkIn, now time.Time) error {
	if checkIn.Before(now) {
		return ErrPastDate
	}
	return nil
}

// SetStatus moves the booking to any known status regardless of the current
// one. Hosts and admins rely on this to correct bookings by hand.
func (b *Booking) SetStatus(status Status, now time.Time) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	from := b.Status
	b.Status = status
	b.UpdatedAt = now.UTC()
	b.Record(StatusChanged{BookingID: b.ID, ListingID: b.ListingID, From: from, To: status, At: b.UpdatedAt})
	return nil
}

// Cancel is the guest-facing transition and only applies to active bookings.
func (b *Booking) Cancel(now time.Time) error {
	if !b.Status.IsActive() {
		return ErrNotCancellable
	}
	return b.SetStatus(StatusCancelled, now)
}

// MarkPaid stores the payment reference and confirms a pending booking.
func (b *Booking) MarkPaid(paymentRef string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrNotPayable
	}
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return apperr.Validation("payment reference is required")
	}
	b.PaymentRef = paymentRef
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingPaid{BookingID: b.ID, ListingID: b.ListingID, PaymentRef: paymentRef, Amount: b.Total, At: b.UpdatedAt})
	return nil
}
