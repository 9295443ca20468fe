package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/rajpandit/expense-tracker/internal/domain"
)

var (
	// ErrDuplicateUser is returned when the email is already registered.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotFound is returned when no user matches the email.
	ErrUserNotFound = errors.New("user not found")
)

// CreateUser registers a new user. The email must be unique.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO `+usersTable+` (
			user_name, user_email, user_encrypted_password, created_by, created_at
		) VALUES (?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedBy,
		user.CreatedAt.String(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("CreateUser: inserting row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("CreateUser: last insert id: %w", err)
	}
	user.ID = id

	return nil
}

// UserByEmail looks up a user by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var (
		user      domain.User
		createdAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_name, user_email, user_encrypted_password, created_by, created_at
		FROM `+usersTable+`
		WHERE user_email = ?`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedBy, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserByEmail: query: %w", err)
	}

	if createdAt.Valid && createdAt.String != "" {
		d, err := civil.ParseDate(createdAt.String)
		if err != nil {
			return nil, fmt.Errorf("UserByEmail: invalid stored created_at %q: %w", createdAt.String, err)
		}
		user.CreatedAt = d
	}

	return &user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "unique constraint")
}
