package user

import (
	"errors"
	"testing"
)

func TestCanManage(t *testing.T) {
	cases := []struct {
		name  string
		owner ID
		p     Principal
		want  bool
	}{
		{"owner", "h1", Principal{ID: "h1", Role: RoleHost}, true},
		{"other host", "h1", Principal{ID: "h2", Role: RoleHost}, false},
		{"guest", "h1", Principal{ID: "g1", Role: RoleGuest}, false},
		{"admin", "h1", Principal{ID: "a1", Role: RoleAdmin}, true},
		{"anonymous admin role", "h1", Principal{Role: RoleAdmin}, false},
		{"empty owner", "", Principal{ID: "", Role: RoleGuest}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanManage(tc.owner, tc.p); got != tc.want {
				t.Fatalf("CanManage = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanHost(t *testing.T) {
	if CanHost(Principal{ID: "g", Role: RoleGuest}) {
		t.Fatalf("guest must not host")
	}
	if !CanHost(Principal{ID: "h", Role: RoleHost}) || !CanHost(Principal{ID: "a", Role: RoleAdmin}) {
		t.Fatalf("host and admin may host")
	}
}

func TestNewUserDefaultsToGuest(t *testing.T) {
	u, err := NewUser(CreateParams{ID: "u1", Username: "ann", Email: " Ann@Example.com ", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if u.Role != RoleGuest || u.Email != "ann@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := NewUser(CreateParams{ID: "u2", Username: "bob", Email: "b@x.io", PasswordHash: "x", Role: "owner"}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
