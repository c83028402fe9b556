package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/apperr"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrUsernameRequired    = apperr.Validation("username is required")
	ErrEmailRequired       = apperr.Validation("email is required")
	ErrInvalidRole         = apperr.Validation("invalid role")
	ErrEmailAlreadyUsed    = apperr.Conflict("user already exists")
	ErrNotFound            = apperr.NotFound("user not found")
)

type ID string

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// ParseRole normalises a role name; an empty value defaults to guest.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(RoleGuest):
		return RoleGuest, nil
	case string(RoleHost):
		return RoleHost, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func NewUser(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	role, err := ParseRole(string(params.Role))
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:           ID(id),
		Username:     username,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Principal returns the identity/role pair used for authorization.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
