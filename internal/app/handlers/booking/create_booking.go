package booking

import (
	"context"
	"strings"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/middleware"
	"staybook/internal/app/uow"
	"staybook/internal/domain/availability"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/apperr"
	"staybook/internal/domain/shared/daterange"
	domainuser "staybook/internal/domain/user"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	Principal       domainuser.Principal `json:"-"`
	ListingID       string               `json:"listingId"`
	CheckIn         time.Time            `json:"checkInDate"`
	CheckOut        time.Time            `json:"checkOutDate"`
	Guests          int                  `json:"numberOfGuests"`
	IdempotencyKeyV string               `json:"-"`
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

// IdempotencyKey is scoped to the requesting guest.
func (c CreateBookingCommand) IdempotencyKey() string {
	if c.IdempotencyKeyV == "" {
		return ""
	}
	return string(c.Principal.ID) + ":" + c.IdempotencyKeyV
}

func (c CreateBookingCommand) ResultPrototype() any { return &dto.Booking{} }

func (c CreateBookingCommand) validate() error {
	var missing []string
	if strings.TrimSpace(c.ListingID) == "" {
		missing = append(missing, "listingId")
	}
	if c.CheckIn.IsZero() {
		missing = append(missing, "checkInDate")
	}
	if c.CheckOut.IsZero() {
		missing = append(missing, "checkOutDate")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	if c.Guests < 1 {
		return domainbooking.ErrInvalidGuests
	}
	return nil
}

type CreateBookingHandler struct {
	Deps
}

// Handle runs the availability check and the insert in one write unit so
// two requests for the same dates cannot both pass the check.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.Booking, error) {
	if err := requirePrincipal(cmd.Principal); err != nil {
		return nil, err
	}
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	unit, ctx, err := support.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer unit.Release(ctx)

	listing, err := unit.Listings().ByID(ctx, domainlistings.ID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	dr, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := domainbooking.ValidateCheckIn(dr.CheckIn, now); err != nil {
		return nil, err
	}

	if err := uow.LockListing(ctx, unit.UnitOfWork, listing.ID); err != nil {
		return nil, err
	}
	checker, err := availability.NewChecker(unit.Bookings())
	if err != nil {
		return nil, err
	}
	free, err := checker.IsAvailable(ctx, listing.ID, dr.CheckIn, dr.CheckOut)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, domainbooking.ErrConflict
	}

	total, err := pricing.ComputeTotal(listing.NightlyRate, dr.CheckIn, dr.CheckOut)
	if err != nil {
		return nil, err
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.ID(h.newID()),
		ListingID: listing.ID,
		GuestID:   cmd.Principal.ID,
		Range:     dr,
		Guests:    cmd.Guests,
		Total:     total,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Insert(ctx, b); err != nil {
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

var _ commands.Handler[CreateBookingCommand, *dto.Booking] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
