package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mkovarik/social-api/internal/apperr"
	"github.com/mkovarik/social-api/internal/user"
)

var testTokenKey = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testTokenKey, accessTTL, refreshTTL)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short keys", func(t *testing.T) {
		_, err := NewTokenService([]byte("too short"), time.Minute, time.Hour)
		require.Error(t, err)
	})

	t.Run("accepts 32-byte keys", func(t *testing.T) {
		_, err := NewTokenService(testTokenKey, time.Minute, time.Hour)
		require.NoError(t, err)
	})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, 15*time.Minute, 7*24*time.Hour)
	u := &user.User{ID: uuid.New(), Username: "alice", EmailAddress: "alice@example.com"}

	t.Run("access token carries its claims", func(t *testing.T) {
		tokenStr, err := svc.IssueAccessToken(u)
		require.NoError(t, err)

		claims, err := svc.DecodeAccessToken(tokenStr)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, "alice@example.com", claims.EmailAddress)
		require.True(t, claims.Authenticated)
	})

	t.Run("refresh token carries its claims", func(t *testing.T) {
		tokenStr, err := svc.IssueRefreshToken(u)
		require.NoError(t, err)

		claims, err := svc.DecodeRefreshToken(tokenStr)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Username)
	})

	t.Run("purposes do not interchange", func(t *testing.T) {
		accessToken, err := svc.IssueAccessToken(u)
		require.NoError(t, err)
		refreshToken, err := svc.IssueRefreshToken(u)
		require.NoError(t, err)

		_, err = svc.DecodeRefreshToken(accessToken)
		require.ErrorIs(t, err, apperr.TokenExpired)
		_, err = svc.DecodeAccessToken(refreshToken)
		require.ErrorIs(t, err, apperr.TokenExpired)
	})

	t.Run("garbage fails as expired", func(t *testing.T) {
		_, err := svc.DecodeAccessToken("v4.local.garbage")
		require.ErrorIs(t, err, apperr.TokenExpired)
	})
}

func TestSessionTokenExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, -time.Minute, -time.Minute)
	u := &user.User{ID: uuid.New(), Username: "bob", EmailAddress: "bob@example.com"}

	tokenStr, err := svc.IssueAccessToken(u)
	require.NoError(t, err)

	_, err = svc.DecodeAccessToken(tokenStr)
	require.ErrorIs(t, err, apperr.TokenExpired)
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(t, 15*time.Minute, time.Hour)
	accountID := uuid.New()

	t.Run("decodes back to the account id", func(t *testing.T) {
		tokenStr, err := svc.IssueVerificationToken(accountID)
		require.NoError(t, err)

		decoded, err := svc.DecodeVerificationToken(tokenStr)
		require.NoError(t, err)
		require.Equal(t, accountID, decoded)
	})

	t.Run("session tokens are not verification tokens", func(t *testing.T) {
		u := &user.User{ID: accountID, Username: "carol", EmailAddress: "carol@example.com"}
		accessToken, err := svc.IssueAccessToken(u)
		require.NoError(t, err)

		_, err = svc.DecodeVerificationToken(accessToken)
		require.ErrorIs(t, err, apperr.TokenExpired)
	})
}
