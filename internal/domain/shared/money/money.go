package money

import (
	"errors"
	"math"
	"strconv"
)

var (
	ErrNegative = errors.New("money: amount cannot be negative")
	ErrInvalid  = errors.New("money: amount is not a finite number")
)

// Cents keeps decimal prices as integer hundredths so totals multiply exactly.
type Cents int64

// FromFloat converts a decimal amount (as received over JSON) into cents,
// rounding to the nearest cent.
func FromFloat(amount float64) (Cents, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalid
	}
	if amount < 0 {
		return 0, ErrNegative
	}
	return Cents(math.Round(amount * 100)), nil
}

// Multiply scales the amount by a whole number of units (nights).
func (c Cents) Multiply(times int64) Cents {
	return Cents(int64(c) * times)
}

// Float renders the amount as a decimal number for JSON responses.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	return strconv.FormatFloat(c.Float(), 'f', 2, 64)
}

func (c Cents) IsZero() bool {
	return c == 0
}
