package daterange

import (
	"strings"
	"time"

	"staybook/internal/domain/shared/apperr"
)

// ErrInvalidRange is returned when check-out does not come strictly after check-in.
var ErrInvalidRange = apperr.InvalidRange("check-out date must be after check-in date")

// DateRange is a stay interval, inclusive of CheckIn and exclusive of CheckOut.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a validated range in UTC.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() || !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Duration is the raw length of the stay.
func (dr DateRange) Duration() time.Duration {
	return dr.CheckOut.Sub(dr.CheckIn)
}

// Overlaps reports whether two half-open ranges share any instant. Ranges
// that only touch (one's check-out equals the other's check-in) do not.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// Adjacent reports a back-to-back stay in either direction.
func (dr DateRange) Adjacent(other DateRange) bool {
	return dr.CheckOut.Equal(other.CheckIn) || dr.CheckIn.Equal(other.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return !t.Before(dr.CheckIn) && t.Before(dr.CheckOut)
}

// ParseDate accepts either a calendar date (YYYY-MM-DD, read as UTC midnight)
// or an RFC3339 timestamp.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
