// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/utils"
)

var ErrInvalidPassword = errors.New("invalid password")

// AuthService guards the admin surface. The admin secret is verified
// server-side against a bcrypt hash; a successful login issues a signed
// session token carrying the admin role. There is a single admin identity
// and no user accounts.
type AuthService struct {
	passwordHash []byte
	ttlHours     int
}

func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := []byte(cfg.Admin.PasswordHash)
	if len(hash) == 0 {
		if cfg.Admin.Password == "" {
			return nil, fmt.Errorf("no admin password configured")
		}
		// Dev fallback: hash the plaintext env password at startup so the
		// comparison path is the same in every environment.
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		hash = generated
	}

	utils.SetJWTSecret(cfg.Admin.JWTSecret)

	return &AuthService{
		passwordHash: hash,
		ttlHours:     cfg.Admin.SessionTTLHours,
	}, nil
}

// VerifyPassword checks a login candidate against the stored hash.
func (s *AuthService) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(candidate)) == nil
}

// Login verifies the candidate password and returns a session token. The
// caller discards the token to log out; there is no server-side session
// state to clear.
func (s *AuthService) Login(password string) (string, error) {
	if !s.VerifyPassword(password) {
		return "", ErrInvalidPassword
	}

	token, err := utils.GenerateAdminJWT(s.ttlHours)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}
