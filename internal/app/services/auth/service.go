package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrPasswordTooShort   = apperr.Validation("password must be at least 6 characters")
	ErrPasswordTooLong    = apperr.Validation("password must be at most 72 bytes")
	ErrAdminRegistration  = apperr.Validation("admin accounts cannot be self-registered")
	ErrInvalidToken       = apperr.Unauthorized("not authorized, token failed")
	ErrMissingDependency  = errors.New("auth: service dependencies missing")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies bearer tokens carrying (userId, role).
type TokenIssuer interface {
	Issue(userID domainuser.ID, role domainuser.Role) (string, time.Time, error)
	Parse(token string) (domainuser.Principal, error)
}

type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenIssuer
	Logger    *slog.Logger
	Clock     func() time.Time
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *domainuser.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(params.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(params.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	role, err := domainuser.ParseRole(params.Role)
	if err != nil {
		return nil, err
	}
	if role == domainuser.RoleAdmin {
		return nil, ErrAdminRegistration
	}
	email := domainuser.NormalizeEmail(params.Email)
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Username:     params.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger().InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return result, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.logger().InfoContext(ctx, "user authenticated", "user_id", user.ID)
	return result, nil
}

// Profile returns the stored account of the requestor.
func (s *Service) Profile(ctx context.Context, p domainuser.Principal) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if p.Anonymous() {
		return nil, ErrInvalidToken
	}
	return s.Users.ByID(ctx, p.ID)
}

// Authenticate verifies a bearer token and returns its principal.
func (s *Service) Authenticate(_ context.Context, token string) (domainuser.Principal, error) {
	if s.Tokens == nil {
		return domainuser.Principal{}, ErrMissingDependency
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domainuser.Principal{}, ErrInvalidToken
	}
	p, err := s.Tokens.Parse(token)
	if err != nil {
		return domainuser.Principal{}, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken.Message, err)
	}
	return p, nil
}

func (s *Service) issue(user *domainuser.User) (*AuthResult, error) {
	token, expiresAt, err := s.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) ensureDependencies() error {
	if s.Users == nil || s.Passwords == nil || s.Tokens == nil {
		return ErrMissingDependency
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
