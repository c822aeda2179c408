package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// chapterSelect must match the scan order in scanChapter. Joining books
// scopes every chapter query to its owner.
const chapterSelect = `
	SELECT c.id, c.book_id, c.name, c.created_at, c.updated_at
	FROM chapters c JOIN books b ON b.id = c.book_id`

func scanChapter(sc scanner) (*domain.Chapter, error) {
	var (
		c         domain.Chapter
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&c.ID, &c.BookID, &c.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChapters returns a book's chapters in creation order. The caller
// checks that the book exists; an unknown book yields an empty list.
func (s *Store) ListChapters(ctx context.Context, userID, bookID int64) ([]*domain.Chapter, error) {
	rows, err := s.query(ctx,
		chapterSelect+` WHERE c.book_id = ? AND b.user_id = ? ORDER BY c.id ASC`, bookID, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanChapter)
}

// GetChapter retrieves a chapter from one of the user's books.
func (s *Store) GetChapter(ctx context.Context, userID, id int64) (*domain.Chapter, error) {
	c, err := scanChapter(s.queryRow(ctx, chapterSelect+` WHERE c.id = ? AND b.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// CreateChapter inserts a chapter and sets its ID. The caller checks that
// the book belongs to the user.
func (s *Store) CreateChapter(ctx context.Context, c *domain.Chapter) error {
	id, err := s.insert(ctx, `
		INSERT INTO chapters (book_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		c.BookID, c.Name, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// UpdateChapter saves the chapter's name.
func (s *Store) UpdateChapter(ctx context.Context, userID int64, c *domain.Chapter) error {
	return s.execOne(ctx, `
		UPDATE chapters SET name = ?, updated_at = ?
		WHERE id = ? AND book_id IN (SELECT id FROM books WHERE user_id = ?)`,
		c.Name, formatTime(c.UpdatedAt), c.ID, userID)
}

// DeleteChapter removes a chapter and its notes.
func (s *Store) DeleteChapter(ctx context.Context, userID, id int64) error {
	return s.execOne(ctx, `
		DELETE FROM chapters
		WHERE id = ? AND book_id IN (SELECT id FROM books WHERE user_id = ?)`,
		id, userID)
}
