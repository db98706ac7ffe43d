package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("google:123", "Jamie", "jamie@example.com", false)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "google:123", claims.Subject)
	assert.Equal(t, "Jamie", claims.Name)
	assert.Equal(t, "jamie@example.com", claims.Email)
	assert.False(t, claims.Guest)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_GuestFlagSurvivesRoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue("guest:abc", "Guest", "", true)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.Guest)
	assert.Empty(t, claims.Email)
}

func TestTokenService_RequiresSecretAndSubject(t *testing.T) {
	_, err := NewTokenService("  ", time.Hour)
	assert.Error(t, err)

	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)
	_, err = svc.Issue("", "x", "", true)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	// Wrong secret.
	other, err := NewTokenService("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("guest:abc", "", "", true)
	require.NoError(t, err)
	_, err = svc.Parse(foreign)
	assert.Error(t, err)

	// Expired.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "guest:abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Parse(signed)
	assert.Error(t, err)

	// Wrong algorithm family (none).
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "guest:abc"},
	})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Parse(noneToken)
	assert.Error(t, err)
}
