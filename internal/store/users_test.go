package store

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/rajpandit/expense-tracker/internal/domain"
)

func sampleUser() *domain.User {
	return &domain.User{
		Name:         "Raj",
		Email:        "raj@example.com",
		PasswordHash: []byte("$2a$10$fakehashfakehashfakehash"),
		CreatedBy:    "SYSTEM",
		CreatedAt:    civil.Date{Year: 2024, Month: 6, Day: 10},
	}
}

func TestCreateUser_AndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := sampleUser()
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("CreateUser should assign the user ID")
	}

	got, err := s.UserByEmail(ctx, "raj@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if got.Name != "Raj" || got.Email != "raj@example.com" {
		t.Errorf("got user %+v", got)
	}
	if string(got.PasswordHash) != string(user.PasswordHash) {
		t.Error("password hash did not round-trip")
	}
	if got.CreatedAt != user.CreatedAt {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, sampleUser()); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}

	err := s.CreateUser(ctx, sampleUser())
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserByEmail_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
