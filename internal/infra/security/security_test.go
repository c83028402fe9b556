package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainuser "staybook/internal/domain/user"
)

func TestJWTRoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", "staybook-test", time.Hour)
	token, exp, err := issuer.Issue("u1", domainuser.RoleHost)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry must be in the future")
	}
	p, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ID != "u1" || p.Role != domainuser.RoleHost {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestJWTRejectsForeignSecretAndExpired(t *testing.T) {
	issuer := NewJWTIssuer("secret", "staybook-test", time.Hour)
	other := NewJWTIssuer("other", "staybook-test", time.Hour)
	token, _, _ := other.Issue("u1", domainuser.RoleGuest)
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected signature failure")
	}

	past := NewJWTIssuer("secret", "staybook-test", time.Minute)
	past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := past.Issue("u1", domainuser.RoleGuest)
	if _, err := issuer.Parse(expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  xyz ": "xyz",
		"Basic abc":    "",
		"Bearer":       "",
	}
	for header, want := range cases {
		got, ok := ExtractBearer(header)
		if got != want || ok != (want != "") {
			t.Fatalf("ExtractBearer(%q) = %q,%v", header, got, ok)
		}
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := h.Compare(hash, "secret1"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
