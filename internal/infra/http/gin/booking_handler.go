package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	meapp "staybook/internal/app/handlers/me"
	"staybook/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	ListingID      string `json:"listingId"`
	CheckInDate    string `json:"checkInDate"`
	CheckOutDate   string `json:"checkOutDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	checkIn, err := parseDate("checkInDate", req.CheckInDate)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	checkOut, err := parseDate("checkOutDate", req.CheckOutDate)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		Principal:       currentPrincipal(c),
		ListingID:       req.ListingID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.NumberOfGuests,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, errInvalidBody)
		return
	}
	cmd := bookingapp.UpdateStatusCommand{
		Principal: currentPrincipal(c),
		BookingID: c.Param("id"),
		Status:    req.Status,
	}
	h.respondBooking(c, http.StatusOK, func() (*dto.Booking, error) {
		return commands.Dispatch[bookingapp.UpdateStatusCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := bookingapp.CancelBookingCommand{Principal: currentPrincipal(c), BookingID: c.Param("id")}
	h.respondBooking(c, http.StatusOK, func() (*dto.Booking, error) {
		return commands.Dispatch[bookingapp.CancelBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	})
}

func (h BookingHandler) Pay(c *gin.Context) {
	cmd := bookingapp.PayBookingCommand{Principal: currentPrincipal(c), BookingID: c.Param("id")}
	h.respondBooking(c, http.StatusOK, func() (*dto.Booking, error) {
		return commands.Dispatch[bookingapp.PayBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	})
}

// Mine lists the requestor's bookings as a plain array.
func (h BookingHandler) Mine(c *gin.Context) {
	result, err := queries.Ask[meapp.ListGuestBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, meapp.ListGuestBookingsQuery{Principal: currentPrincipal(c)})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result.Items)
}

func (h BookingHandler) All(c *gin.Context) {
	result, err := queries.Ask[bookingapp.ListAllQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, bookingapp.ListAllQuery{Principal: currentPrincipal(c)})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result.Items)
}

func (h BookingHandler) respondBooking(c *gin.Context, status int, dispatch func() (*dto.Booking, error)) {
	result, err := dispatch()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(status, result)
}

var _ BookingHTTP = BookingHandler{}
