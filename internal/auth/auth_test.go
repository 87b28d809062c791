package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "client@example.com", RoleClient, testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "client@example.com", claims.Email)
	assert.Equal(t, RoleClient, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", RoleTrainer, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenEmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(1, "a@b.c", RoleClient, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, err = ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestRefreshAccessToken(t *testing.T) {
	_, refreshToken, err := GenerateTokens(7, "t@example.com", RoleTrainer, testSecret, testSecret)
	require.NoError(t, err)

	newAccess, claims, err := RefreshAccessToken(refreshToken, testSecret, testSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.Equal(t, 7, claims.UserID)

	newClaims, err := ValidateToken(newAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", newClaims.TokenType)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	accessToken, err := GenerateAccessToken(7, "t@example.com", RoleTrainer, testSecret)
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(accessToken, testSecret, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestTokenTTLs(t *testing.T) {
	assert.Equal(t, 15*time.Minute, AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, RefreshTokenTTL)
}
