package booking

import (
	"context"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const updateStatusKey = "booking.update_status"

var ErrNotListingHost = apperr.Forbidden("only the listing host or an admin can change booking status")

type UpdateStatusCommand struct {
	Principal domainuser.Principal `json:"-"`
	BookingID string               `json:"-" validate:"required"`
	Status    string               `json:"status"`
}

func (c UpdateStatusCommand) Key() string { return updateStatusKey }

type UpdateStatusHandler struct {
	Deps
}

// Handle loads, authorises, then validates the status, in that order. Any
// known status is accepted from any current status.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*dto.Booking, error) {
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
	if !domainuser.CanManage(hostID, cmd.Principal) {
		return nil, ErrNotListingHost
	}
	status, err := domainbooking.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	if err := b.SetStatus(status, h.now()); err != nil {
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

var _ commands.Handler[UpdateStatusCommand, *dto.Booking] = (*UpdateStatusHandler)(nil)
