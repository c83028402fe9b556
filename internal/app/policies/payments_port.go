package policies

import (
	"context"

	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/money"
)

// ErrPaymentDeclined is returned by gateways that refuse a charge.
var ErrPaymentDeclined = apperr.New(apperr.KindPaymentDeclined, "payment was declined")

// Charge describes a single payment attempt for a booking.
type Charge struct {
	BookingID string
	GuestID   string
	Amount    money.Cents
}

// PaymentsPort charges a guest and returns the gateway reference.
type PaymentsPort interface {
	Charge(ctx context.Context, charge Charge) (string, error)
}
