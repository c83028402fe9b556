package booking

import (
	"context"
	"errors"
	"log/slog"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/policies"
	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const payBookingKey = "booking.pay"

var ErrNotBookingGuest = apperr.Forbidden("only the guest who made the booking can pay for it")

type PayBookingCommand struct {
	Principal domainuser.Principal `json:"-"`
	BookingID string               `json:"-" validate:"required"`
}

func (c PayBookingCommand) Key() string { return payBookingKey }

type PayBookingHandler struct {
	Deps
	Payments policies.PaymentsPort
	Logger   *slog.Logger
}

var ErrPaymentsRequired = errors.New("booking: payments port required")

// Handle charges the booking total and confirms the booking. A declined
// charge leaves the booking untouched.
func (h *PayBookingHandler) Handle(ctx context.Context, cmd PayBookingCommand) (*dto.Booking, error) {
	if err := requirePrincipal(cmd.Principal); err != nil {
		return nil, err
	}
	if h.Payments == nil {
		return nil, ErrPaymentsRequired
	}
	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	b, err := unit.Bookings().ByID(ctx, domainbooking.ID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if b.GuestID != cmd.Principal.ID {
		return nil, ErrNotBookingGuest
	}
	if b.Status != domainbooking.StatusPending {
		return nil, domainbooking.ErrNotPayable
	}

	ref, err := h.Payments.Charge(ctx, policies.Charge{
		BookingID: string(b.ID),
		GuestID:   string(b.GuestID),
		Amount:    b.Total,
	})
	if err != nil {
		h.logger().WarnContext(ctx, "booking payment failed", "booking_id", b.ID, "error", err)
		return nil, err
	}
	if err := b.MarkPaid(ref, h.now()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Update(ctx, b); err != nil {
		return nil, err
	}
	if err := h.publish(ctx, b); err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	h.logger().InfoContext(ctx, "booking paid", "booking_id", b.ID, "payment_ref", ref)
	out := dto.MapBooking(b)
	return &out, nil
}

func (h *PayBookingHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[PayBookingCommand, *dto.Booking] = (*PayBookingHandler)(nil)
