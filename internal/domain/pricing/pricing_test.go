package pricing

import (
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func TestComputeTotal(t *testing.T) {
	d0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		rate money.Cents
		out  time.Time
		want money.Cents
	}{
		{"three nights", 10000, d0.AddDate(0, 0, 3), 30000},
		{"scenario 50 x 3", 5000, d0.Add(72 * time.Hour), 15000},
		{"half day rounds up", 10000, d0.Add(36 * time.Hour), 20000},
		{"under half rounds down", 10000, d0.Add(35 * time.Hour), 10000},
		{"short stay rounds to zero", 10000, d0.Add(11 * time.Hour), 0},
		{"free listing", 0, d0.AddDate(0, 0, 2), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeTotal(tc.rate, d0, tc.out)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ComputeTotal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestComputeTotalRejectsEmptyStay(t *testing.T) {
	d0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := ComputeTotal(10000, d0, d0); !errors.Is(err, daterange.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := ComputeTotal(10000, d0, d0.Add(-time.Hour)); !errors.Is(err, daterange.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for reversed stay, got %v", err)
	}
}
