package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainuser "staybook/internal/domain/user"
)

var ErrInvalidClaims = errors.New("token: invalid claims")

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens carrying the user id and role.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret, issuer string, ttl time.Duration) *JWTIssuer {
	if issuer == "" {
		issuer = "staybook"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(userID domainuser.ID, role domainuser.Role) (string, time.Time, error) {
	if userID == "" || role == "" {
		return "", time.Time{}, fmt.Errorf("token: user id and role required")
	}
	now := j.now()
	expiresAt := now.Add(j.ttl)
	claims := Claims{
		UserID: string(userID),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(userID),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *JWTIssuer) Parse(raw string) (domainuser.Principal, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		return domainuser.Principal{}, fmt.Errorf("token: parse: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return domainuser.Principal{}, ErrInvalidClaims
	}
	role, err := domainuser.ParseRole(claims.Role)
	if err != nil {
		return domainuser.Principal{}, ErrInvalidClaims
	}
	return domainuser.Principal{ID: domainuser.ID(claims.UserID), Role: role}, nil
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
