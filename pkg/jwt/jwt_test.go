package jwt

import (
	"testing"
	"time"

	"hospital-queue/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})

	token, tokenID, err := svc.GenerateAccessToken("operator", RoleOperator)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, RoleOperator, claims.Role)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})
	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	expired := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: -time.Minute})

	foreign, _, err := other.GenerateAccessToken("operator", RoleOperator)
	require.NoError(t, err)
	stale, _, err := expired.GenerateAccessToken("operator", RoleOperator)
	require.NoError(t, err)

	for name, token := range map[string]string{"wrong key": foreign, "expired": stale, "garbage": "abc"} {
		_, err := svc.ValidateToken(token)
		assert.Error(t, err, name)
	}
}

func TestMissingSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{AccessExpiry: time.Minute})

	_, _, err := svc.GenerateAccessToken("operator", RoleOperator)
	assert.Error(t, err)
	_, err = svc.ValidateToken("abc")
	assert.Error(t, err)
}
