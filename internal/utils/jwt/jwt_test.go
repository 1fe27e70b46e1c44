package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), testSecret, time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other-secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, testSecret)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not.a.token", testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGeneratePairUsesDistinctSecrets(t *testing.T) {
	userID := uuid.New()

	pair, err := GeneratePair(userID, "access-secret", "refresh-secret")
	require.NoError(t, err)

	claims, err := VerifyToken(pair.AccessToken, "access-secret")
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)

	_, err = VerifyToken(pair.RefreshToken, "access-secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	claims, err = VerifyToken(pair.RefreshToken, "refresh-secret")
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
}
