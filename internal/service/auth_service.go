package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/spec-kit/ticket-insights/internal/auth"
	"github.com/spec-kit/ticket-insights/internal/config"
	apperrors "github.com/spec-kit/ticket-insights/pkg/util/errorutil"
)

// AuthService authenticates the configured operator account.
type AuthService struct {
	username     string
	passwordHash string
	tokenMgr     *auth.TokenManager
}

// NewAuthService builds the service. A plaintext operator password is hashed
// once here so only the hash is kept in memory.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager) (*AuthService, error) {
	hash := cfg.OperatorPasswordHash
	if hash != "" {
		if err := auth.CheckHash(hash); err != nil {
			return nil, err
		}
	} else if cfg.OperatorPassword != "" {
		var err error
		hash, err = auth.HashPassword(cfg.OperatorPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
	}
	return &AuthService{
		username:     cfg.OperatorUsername,
		passwordHash: hash,
		tokenMgr:     tokens,
	}, nil
}

// Configured reports whether an operator password is set.
func (s *AuthService) Configured() bool {
	return s.passwordHash != ""
}

// Login verifies the operator credentials and issues an access token.
func (s *AuthService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if username == "" || password == "" {
		return "", time.Time{}, apperrors.NewValidationError("username and password are required", nil)
	}
	if !s.Configured() {
		return "", time.Time{}, apperrors.Wrap(apperrors.NewUnauthorized("invalid credentials"), ErrInvalidCredentials)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := auth.PasswordMatches(s.passwordHash, password)
	if !userOK || !passOK {
		return "", time.Time{}, apperrors.Wrap(apperrors.NewUnauthorized("invalid credentials"), ErrInvalidCredentials)
	}
	return s.tokenMgr.GenerateToken(s.username)
}
