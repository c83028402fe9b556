package validation

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain/shared/apperr"
)

type sampleCommand struct {
	ListingID string    `json:"listingId" validate:"required"`
	CheckIn   time.Time `json:"checkInDate" validate:"required"`
	Guests    int       `json:"numberOfGuests" validate:"min=1"`
	Email     string    `json:"email" validate:"omitempty,email"`
}

func TestValidatorReportsFields(t *testing.T) {
	v := New()
	err := v.Validate(context.Background(), sampleCommand{Email: "nope"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "listingId is required; checkInDate is required; numberOfGuests must be at least 1; email must be a valid email"
	if apperr.Message(err) != want {
		t.Fatalf("unexpected message %q", apperr.Message(err))
	}
}

func TestValidatorAcceptsValid(t *testing.T) {
	v := New()
	cmd := &sampleCommand{ListingID: "l1", CheckIn: time.Now(), Guests: 1}
	if err := v.Validate(context.Background(), cmd); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := v.Validate(context.Background(), "not a struct"); err != nil {
		t.Fatalf("non-struct messages pass through, got %v", err)
	}
}
