package booking

import (
	"context"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const cancelBookingKey = "booking.cancel"

var ErrCannotCancel = apperr.Forbidden("only the guest, the listing host or an admin can cancel this booking")

type CancelBookingCommand struct {
	Principal domainuser.Principal `json:"-"`
	BookingID string               `json:"-" validate:"required"`
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingHandler struct {
	Deps
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.Booking, error) {
	if err := requirePrincipal(cmd.Principal); err != nil {
		return nil, err
	}
	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	b, hostID, err := loadWithHost(ctx, unit, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if b.GuestID != cmd.Principal.ID && !domainuser.CanManage(hostID, cmd.Principal) {
		return nil, ErrCannotCancel
	}
	if err := b.Cancel(h.now()); err != nil {
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
	out := dto.MapBooking(b)
	return &out, nil
}

var _ commands.Handler[CancelBookingCommand, *dto.Booking] = (*CancelBookingHandler)(nil)
