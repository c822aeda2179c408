package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(sc scanner) (*domain.User, error) {
	var (
		u         domain.User
		name      sql.NullString
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&u.ID, &u.Email, &name, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		u.Name = &name.String
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and sets its ID.
// Returns store.ErrAlreadyExists when the email is taken.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	id, err := s.insert(ctx, `
		INSERT INTO users (email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Email,
		nullableString(u.Name),
		u.PasswordHash,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// GetUserByEmail retrieves a user by exact email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// UpdateUserPassword replaces a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string, at time.Time) error {
	return s.execOne(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, formatTime(at), userID)
}

// resetTokenColumns must match the scan order in scanResetToken.
const resetTokenColumns = `id, user_id, token, expires_at, used, created_at`

func scanResetToken(sc scanner) (*domain.PasswordResetToken, error) {
	var (
		t         domain.PasswordResetToken
		expiresAt string
		createdAt string
	)
	if err := sc.Scan(&t.ID, &t.UserID, &t.Token, &expiresAt, &t.Used, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if t.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateResetToken stores a password reset token and sets its ID.
func (s *Store) CreateResetToken(ctx context.Context, t *domain.PasswordResetToken) error {
	id, err := s.insert(ctx, `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.UserID,
		t.Token,
		formatTime(t.ExpiresAt),
		t.Used,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetResetToken looks a token up by its secret value.
func (s *Store) GetResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	t, err := scanResetToken(s.queryRow(ctx,
		`SELECT `+resetTokenColumns+` FROM password_reset_tokens WHERE token = ?`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// MarkResetTokenUsed flags a token as redeemed. A token that is already used
// returns store.ErrNotFound, so two concurrent resets cannot both succeed.
func (s *Store) MarkResetTokenUsed(ctx context.Context, id int64) error {
	return s.execOne(ctx,
		`UPDATE password_reset_tokens SET used = ? WHERE id = ? AND used = ?`,
		true, id, false)
}
