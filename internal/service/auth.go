package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/fraudscope/internal/database/repository"
	"github.com/jask/fraudscope/internal/errs"
	"github.com/jask/fraudscope/internal/logging"
)

// DefaultPassword is used when no password hash is configured.
const DefaultPassword = "yesiwill"

const authenticated = "authenticated"

// ErrInvalidCredentials is returned by Login on a username or password
// mismatch.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService gates the tool behind a single analyst credential and keeps
// the signed-in flag in the key-value store.
type AuthService struct {
	Store    repository.Store
	Username string
	Log      *zap.SugaredLogger

	hash []byte
}

// NewAuthService checks logins against passwordHash, a bcrypt hash. An empty
// hash means DefaultPassword.
func NewAuthService(store repository.Store, username, passwordHash string, log *zap.SugaredLogger) (*AuthService, error) {
	hash := []byte(passwordHash)
	if passwordHash == "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash default password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("auth.password_hash: %w", err)
	}
	return &AuthService{Store: store, Username: username, Log: log, hash: hash}, nil
}

// HashPassword returns a bcrypt hash suitable for auth.password_hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Login checks the credential and, on success, persists the signed-in flag.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	log := logging.OrNop(s.Log)
	if username != s.Username || bcrypt.CompareHashAndPassword(s.hash, []byte(password)) != nil {
		log.Warnw("login rejected", "username", username)
		return ErrInvalidCredentials
	}
	if err := s.Store.Put(ctx, repository.KeyAuthStatus, authenticated); err != nil {
		return errs.Storage("write auth status", err)
	}
	log.Infow("login", "username", username)
	return nil
}

// IsAuthenticated reports the persisted flag. A store failure reads as
// signed out.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	v, ok, err := s.Store.Get(ctx, repository.KeyAuthStatus)
	if err != nil {
		logging.OrNop(s.Log).Errorw("reading auth status", "error", err)
		return false
	}
	return ok && v == authenticated
}

// Logout clears the flag.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.Store.Delete(ctx, repository.KeyAuthStatus); err != nil {
		return errs.Storage("clear auth status", err)
	}
	logging.OrNop(s.Log).Infow("logout")
	return nil
}
