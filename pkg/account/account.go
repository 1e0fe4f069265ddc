// Package account implements email/password registration and login on top of
// the storage layer.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mochi-ai/mochi-go/pkg/storage"
)

// Password policy bounds. The upper bound is measured in bytes so multi-byte
// passwords cannot overflow the hash input.
const (
	minPasswordChars = 6
	maxPasswordBytes = 512
)

// Account validation and authentication errors.
var (
	ErrInvalidEmail       = errors.New("valid email is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account registration and login.
type Service struct {
	store  storage.Store
	logger *log.Logger
}

// NewService creates an account service backed by the given store.
func NewService(store storage.Store, logger *log.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// NormalizeEmail trims whitespace and lowercases the email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account.
//
// The email is normalized before validation and uniqueness checking. The
// password must be at least 6 characters and at most 512 bytes; it is stored
// as a bcrypt hash. The new user gets a generated external identifier.
//
// Returns ErrInvalidEmail, ErrWeakPassword, ErrPasswordTooLong, or
// ErrEmailTaken on policy violations.
func (s *Service) Register(ctx context.Context, email, password string) (*storage.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len([]rune(password)) < minPasswordChars {
		return nil, ErrWeakPassword
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	user := &storage.User{
		UserID:       "U-" + uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	s.logger.Info("account registered", "user_id", user.UserID)
	return user, nil
}

// Login authenticates an account by email and password.
//
// Returns ErrInvalidCredentials on an unknown email, a password-less record,
// or a hash mismatch; the three cases are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*storage.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
