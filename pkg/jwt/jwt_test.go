package jwt

import (
	"testing"
	"time"

	"medilink-api/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newService("secret")
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "a@x.com", 3)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, 3, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, _, err := newService("one").GenerateRefreshToken(uuid.New(), "a@x.com", 2)
	require.NoError(t, err)

	_, err = newService("two").ValidateToken(token)
	assert.Error(t, err)
}
