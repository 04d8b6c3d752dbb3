package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrUnauthenticated means no capability was presented at all.
	ErrUnauthenticated = errors.New("no credentials presented")
	// ErrForbidden means credentials were presented but are not an admin capability.
	ErrForbidden = errors.New("admin capability required")
)

// Authorizer answers whether a request carries the admin capability.
type Authorizer interface {
	IsAdmin(r *http.Request) error
}

// Claims is the token payload issued to competition admins.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthorizer validates HS256 bearer tokens carrying role=admin.
type JWTAuthorizer struct {
	secret []byte
}

func NewJWTAuthorizer(secret string) *JWTAuthorizer {
	return &JWTAuthorizer{secret: []byte(secret)}
}

// IsAdmin checks the Authorization header for a valid admin token.
func (a *JWTAuthorizer) IsAdmin(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ErrUnauthenticated
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw == header || raw == "" {
		return ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrForbidden
	}
	if claims.Role != "admin" {
		return ErrForbidden
	}
	return nil
}

// IssueAdminToken mints an admin token, used by the ops tooling and tests.
func (a *JWTAuthorizer) IssueAdminToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(a.secret)
}
