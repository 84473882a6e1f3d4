package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenmart/auth-service/internal/constants"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	signed, err := svc.IssueAccessToken(42, constants.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, constants.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	signed, err := svc.IssueRefreshToken(7)
	require.NoError(t, err)

	userID, err := svc.VerifyRefreshToken(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken(1, constants.RoleCustomer)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(1)
	require.NoError(t, err)

	// An access token must not pass refresh verification, and vice versa.
	_, err = svc.VerifyRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.VerifyAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService("other-access", "other-refresh", time.Minute, time.Minute)

	forged, err := other.IssueAccessToken(1, constants.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(forged)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	expired, err := svc.IssueAccessToken(9, constants.RoleCustomer)
	require.NoError(t, err)
	_, err = svc.VerifyAccessToken(expired)
	assert.Error(t, err)

	expiredRefresh, err := svc.IssueRefreshToken(9)
	require.NoError(t, err)
	_, err = svc.VerifyRefreshToken(expiredRefresh)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := newTestTokenService()

	_, err := svc.VerifyAccessToken("not.a.jwt")
	assert.Error(t, err)
	_, err = svc.VerifyRefreshToken("")
	assert.Error(t, err)
}
