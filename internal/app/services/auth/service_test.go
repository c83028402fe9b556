package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
)

func newService() *Service {
	return &Service{
		Users:     memory.NewUserRepository(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.NewJWTIssuer("test-secret", "staybook", time.Hour),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Username: "hana", Email: " Hana@Example.com ", Password: "secret1", Role: "host"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "hana@example.com" || res.User.Role != domainuser.RoleHost || res.Token == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.User.PasswordHash == "secret1" {
		t.Fatalf("password stored in clear")
	}

	p, err := svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.ID != res.User.ID || p.Role != domainuser.RoleHost {
		t.Fatalf("unexpected principal %+v", p)
	}

	login, err := svc.Login(ctx, LoginParams{Email: "HANA@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != res.User.ID {
		t.Fatalf("login returned another user")
	}
	profile, err := svc.Profile(ctx, p)
	if err != nil || profile.Username != "hana" {
		t.Fatalf("profile: %+v %v", profile, err)
	}
}

func TestRegisterRejections(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterParams{Username: "gina", Email: "gina@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name   string
		params RegisterParams
		want   error
	}{
		{"duplicate email", RegisterParams{Username: "g2", Email: "GINA@example.com", Password: "secret1"}, domainuser.ErrEmailAlreadyUsed},
		{"short password", RegisterParams{Username: "x", Email: "x@example.com", Password: "12345"}, ErrPasswordTooShort},
		{"long password", RegisterParams{Username: "x", Email: "x@example.com", Password: strings.Repeat("p", 73)}, ErrPasswordTooLong},
		{"unknown role", RegisterParams{Username: "x", Email: "x@example.com", Password: "secret1", Role: "owner"}, domainuser.ErrInvalidRole},
		{"admin role", RegisterParams{Username: "x", Email: "x@example.com", Password: "secret1", Role: "admin"}, ErrAdminRegistration},
		{"missing username", RegisterParams{Email: "y@example.com", Password: "secret1"}, domainuser.ErrUsernameRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.params); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterParams{Username: "gina", Email: "gina@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, params := range []LoginParams{
		{Email: "gina@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "secret1"},
		{Email: "", Password: "secret1"},
	} {
		if _, err := svc.Login(ctx, params); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %q, got %v", params.Email, err)
		}
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := newService()
	other := security.NewJWTIssuer("another-secret", "staybook", time.Hour)
	forged, _, err := other.Issue("u1", domainuser.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for _, token := range []string{"", "garbage", forged} {
		_, err := svc.Authenticate(context.Background(), token)
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", token, err)
		}
	}
}
