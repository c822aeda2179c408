package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

func testUsers(t *testing.T, s *Store) {
	ctx := context.Background()

	name := "Ada"
	now := tick()
	u := &domain.User{Email: "ada@example.com", Name: &name, PasswordHash: "h1", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("CreateUser did not set ID")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != u.Email || got.Name == nil || *got.Name != "Ada" {
		t.Errorf("GetUser: got %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, now)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail: got id %d, want %d", byEmail.ID, u.ID)
	}

	dup := &domain.User{Email: "ada@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}

	nameless := mustUser(t, s, "grace@example.com")
	got, err = s.GetUser(ctx, nameless.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != nil {
		t.Errorf("Name: got %q, want nil", *got.Name)
	}

	if err := s.UpdateUserPassword(ctx, u.ID, "h2", tick()); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.PasswordHash != "h2" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}

	if _, err := s.GetUser(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser missing: got %v", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByEmail missing: got %v", err)
	}
	if err := s.UpdateUserPassword(ctx, 9999, "x", tick()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateUserPassword missing: got %v", err)
	}
}

func testResetTokens(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "reset@example.com")

	now := tick()
	tok := &domain.PasswordResetToken{
		UserID:    u.ID,
		Token:     "secret-token",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	if err := s.CreateResetToken(ctx, tok); err != nil {
		t.Fatalf("CreateResetToken: %v", err)
	}

	got, err := s.GetResetToken(ctx, "secret-token")
	if err != nil {
		t.Fatalf("GetResetToken: %v", err)
	}
	if got.UserID != u.ID || got.Used || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("GetResetToken: got %+v", got)
	}
	if !got.Usable(now) {
		t.Error("fresh token should be usable")
	}

	if err := s.MarkResetTokenUsed(ctx, got.ID); err != nil {
		t.Fatalf("MarkResetTokenUsed: %v", err)
	}
	// A second redemption must fail.
	if err := s.MarkResetTokenUsed(ctx, got.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second MarkResetTokenUsed: got %v, want ErrNotFound", err)
	}

	got, _ = s.GetResetToken(ctx, "secret-token")
	if !got.Used {
		t.Error("token should be used")
	}

	if _, err := s.GetResetToken(ctx, "unknown"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetResetToken unknown: got %v", err)
	}
}
