package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuedTokenIsAccepted(t *testing.T) {
	a := NewJWTAuthorizer("test-secret")

	token, err := a.IssueAdminToken("ops", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/api/live/voting/control", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	assert.NoError(t, a.IsAdmin(r))
}

func TestMissingHeaderIsUnauthenticated(t *testing.T) {
	a := NewJWTAuthorizer("test-secret")

	r := httptest.NewRequest("POST", "/api/live/voting/control", nil)
	assert.ErrorIs(t, a.IsAdmin(r), ErrUnauthenticated)

	r.Header.Set("Authorization", "Bearer ")
	assert.ErrorIs(t, a.IsAdmin(r), ErrUnauthenticated)

	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, a.IsAdmin(r), ErrUnauthenticated)
}

func TestWrongSecretIsForbidden(t *testing.T) {
	other := NewJWTAuthorizer("other-secret")
	token, err := other.IssueAdminToken("ops", time.Hour)
	require.NoError(t, err)

	a := NewJWTAuthorizer("test-secret")
	r := httptest.NewRequest("POST", "/api/live/voting/control", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	assert.ErrorIs(t, a.IsAdmin(r), ErrForbidden)
}

func TestNonAdminRoleIsForbidden(t *testing.T) {
	secret := "test-secret"
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	a := NewJWTAuthorizer(secret)
	r := httptest.NewRequest("POST", "/api/live/voting/control", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	assert.ErrorIs(t, a.IsAdmin(r), ErrForbidden)
}

func TestExpiredTokenIsForbidden(t *testing.T) {
	a := NewJWTAuthorizer("test-secret")
	token, err := a.IssueAdminToken("ops", -time.Minute)
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/api/live/voting/control", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	assert.ErrorIs(t, a.IsAdmin(r), ErrForbidden)
}
