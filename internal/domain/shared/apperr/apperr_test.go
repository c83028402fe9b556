package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	base := Conflict("selected dates are not available")
	wrapped := fmt.Errorf("create booking: %w", base)

	if got := KindOf(wrapped); got != KindConflict {
		t.Fatalf("expected conflict kind, got %q", got)
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if Message(wrapped) != "selected dates are not available" {
		t.Fatalf("unexpected message %q", Message(wrapped))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("mongo: no documents")
	err := Wrap(KindNotFound, "booking not found", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if !errors.Is(err, NotFound("booking not found")) {
		t.Fatalf("expected kind+message equality")
	}
	if errors.Is(err, NotFound("listing not found")) {
		t.Fatalf("different message must not match")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("plain errors carry no kind")
	}
	if IsKind(nil, KindValidation) {
		t.Fatalf("nil error has no kind")
	}
}
