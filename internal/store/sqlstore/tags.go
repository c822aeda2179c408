package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, user_id, name, color, created_at, updated_at`

func scanTag(sc scanner) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns the user's tags in creation order.
func (s *Store) ListTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTag)
}

// GetTag retrieves one of the user's tags.
func (s *Store) GetTag(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	t, err := scanTag(s.queryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// CreateTag inserts a tag and sets its ID. Tag names need not be unique.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	id, err := s.insert(ctx, `
		INSERT INTO tags (user_id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.UserID, t.Name, t.Color, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// UpdateTag saves the tag's name and color.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	return s.execOne(ctx,
		`UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		t.Name, t.Color, formatTime(t.UpdatedAt), t.ID, t.UserID)
}

// DeleteTag removes a tag.
func (s *Store) DeleteTag(ctx context.Context, userID, id int64) error {
	return s.execOne(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
}
