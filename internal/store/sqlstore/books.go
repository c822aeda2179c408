package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// bookSelect must match the scan order in scanBook. note_count counts the
// notes of every chapter in the book.
const bookSelect = `
	SELECT b.id, b.user_id, b.name,
		(SELECT COUNT(*) FROM notes n JOIN chapters c ON c.id = n.chapter_id WHERE c.book_id = b.id),
		b.created_at, b.updated_at
	FROM books b`

func scanBook(sc scanner) (*domain.Book, error) {
	var (
		b         domain.Book
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&b.ID, &b.UserID, &b.Name, &b.NoteCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBooks returns the user's books in creation order.
func (s *Store) ListBooks(ctx context.Context, userID int64) ([]*domain.Book, error) {
	rows, err := s.query(ctx, bookSelect+` WHERE b.user_id = ? ORDER BY b.id ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBook)
}

// GetBook retrieves one of the user's books.
func (s *Store) GetBook(ctx context.Context, userID, id int64) (*domain.Book, error) {
	b, err := scanBook(s.queryRow(ctx, bookSelect+` WHERE b.id = ? AND b.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return b, err
}

// CreateBook inserts a book and sets its ID.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	id, err := s.insert(ctx, `
		INSERT INTO books (user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		b.UserID, b.Name, formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// UpdateBook saves the book's name.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	return s.execOne(ctx,
		`UPDATE books SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		b.Name, formatTime(b.UpdatedAt), b.ID, b.UserID)
}

// DeleteBook removes a book. Its chapters and their notes go with it.
func (s *Store) DeleteBook(ctx context.Context, userID, id int64) error {
	return s.execOne(ctx, `DELETE FROM books WHERE id = ? AND user_id = ?`, id, userID)
}
