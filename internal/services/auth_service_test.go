// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/utils"
)

func testAuthConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Admin: config.AdminConfig{
			PasswordHash:    string(hash),
			JWTSecret:       "test-secret",
			SessionTTLHours: 1,
		},
	}
}

func TestAuthServiceVerifyPassword(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(t))
	require.NoError(t, err)

	assert.True(t, svc.VerifyPassword("correct-horse"))
	assert.False(t, svc.VerifyPassword("wrong"))
	assert.False(t, svc.VerifyPassword(""))
}

func TestAuthServiceLogin(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(t))
	require.NoError(t, err)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	token, err := svc.Login("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, claims.Role)
}

func TestAuthServiceDevPasswordFallback(t *testing.T) {
	cfg := &config.Config{
		Admin: config.AdminConfig{
			Password:        "dev-only",
			JWTSecret:       "test-secret",
			SessionTTLHours: 1,
		},
	}

	svc, err := NewAuthService(cfg)
	require.NoError(t, err)
	assert.True(t, svc.VerifyPassword("dev-only"))
	assert.False(t, svc.VerifyPassword("other"))
}

func TestAuthServiceRequiresPassword(t *testing.T) {
	_, err := NewAuthService(&config.Config{
		Admin: config.AdminConfig{JWTSecret: "test-secret"},
	})
	assert.Error(t, err)
}
