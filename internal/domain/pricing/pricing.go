package pricing

import (
	"math"
	"time"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Nights counts billable nights as the millisecond span divided by one day,
// rounded half away from zero, so stays given as timestamps bill whole nights.
func Nights(checkIn, checkOut time.Time) int64 {
	ms := checkOut.Sub(checkIn).Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	return int64(math.Round(float64(ms) / millisPerDay))
}

// ComputeTotal multiplies the nightly rate by the number of nights.
func ComputeTotal(nightlyRate money.Cents, checkIn, checkOut time.Time) (money.Cents, error) {
	if !checkOut.After(checkIn) {
		return 0, daterange.ErrInvalidRange
	}
	return nightlyRate.Multiply(Nights(checkIn, checkOut)), nil
}
