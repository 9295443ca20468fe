package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajpandit/expense-tracker/internal/domain"
	"github.com/rajpandit/expense-tracker/internal/store"
)

const minPasswordLen = 6

// ErrInvalidCredentials is returned on signin when the email is unknown or
// the password does not match. Callers must not distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the record store the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Service handles signup, signin and session tokens.
type Service struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService creates an auth service. secret signs session tokens.
func NewService(users UserStore, secret []byte) *Service {
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: 24 * time.Hour,
		now:      time.Now,
	}
}

// SignUp registers a new user with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("SignUp: email is required")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("SignUp: password too short (min %d)", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("SignUp: hashing password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedBy:    "SYSTEM",
		CreatedAt:    civil.DateOf(s.now()),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return err
		}
		return fmt.Errorf("SignUp: creating user: %w", err)
	}

	return nil
}

// SignIn verifies the credentials and returns a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("SignIn: looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("SignIn: %w", err)
	}
	return token, nil
}
