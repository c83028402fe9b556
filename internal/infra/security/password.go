package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch means the password does not match the stored hash.
	ErrPasswordMismatch = errors.New("security: password mismatch")
	ErrPasswordTooLong  = errors.New("security: password exceeds 72 bytes")
)

// BcryptHasher stores account passwords. Cost outside bcrypt's range falls
// back to bcrypt.DefaultCost; tests use bcrypt.MinCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", ErrPasswordTooLong
	case err != nil:
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
