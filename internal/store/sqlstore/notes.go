package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// noteSelect must match the scan order in scanNote.
const noteSelect = `
	SELECT n.id, n.chapter_id, n.content, n.created_at, n.updated_at
	FROM notes n
	JOIN chapters c ON c.id = n.chapter_id
	JOIN books b ON b.id = c.book_id`

// noteOrder puts the newest note first. Ties on created_at fall back to id
// so the order is stable.
const noteOrder = ` ORDER BY n.created_at DESC, n.id DESC`

func scanNote(sc scanner) (*domain.Note, error) {
	var (
		n         domain.Note
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&n.ID, &n.ChapterID, &n.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotes returns a chapter's notes, newest first.
func (s *Store) ListNotes(ctx context.Context, userID, chapterID int64) ([]*domain.Note, error) {
	rows, err := s.query(ctx,
		noteSelect+` WHERE n.chapter_id = ? AND b.user_id = ?`+noteOrder, chapterID, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNote)
}

// GetNote retrieves one of the user's notes.
func (s *Store) GetNote(ctx context.Context, userID, id int64) (*domain.Note, error) {
	n, err := scanNote(s.queryRow(ctx, noteSelect+` WHERE n.id = ? AND b.user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return n, err
}

// CreateNote inserts a note and sets its ID. The caller checks that the
// chapter belongs to the user.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note) error {
	id, err := s.insert(ctx, `
		INSERT INTO notes (chapter_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		n.ChapterID, n.Content, formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

// ownedChapters restricts a chapter_id column to chapters the user owns.
const ownedChapters = `chapter_id IN (
	SELECT c.id FROM chapters c JOIN books b ON b.id = c.book_id WHERE b.user_id = ?)`

// UpdateNote saves the note's content.
func (s *Store) UpdateNote(ctx context.Context, userID int64, n *domain.Note) error {
	return s.execOne(ctx,
		`UPDATE notes SET content = ?, updated_at = ? WHERE id = ? AND `+ownedChapters,
		n.Content, formatTime(n.UpdatedAt), n.ID, userID)
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, userID, id int64) error {
	return s.execOne(ctx, `DELETE FROM notes WHERE id = ? AND `+ownedChapters, id, userID)
}

func (s *Store) noteIDs(ctx context.Context, where string, args ...any) ([]int64, error) {
	rows, err := s.query(ctx, `
		SELECT n.id FROM notes n
		JOIN chapters c ON c.id = n.chapter_id
		JOIN books b ON b.id = c.book_id
		WHERE `+where+` ORDER BY n.id`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(sc scanner) (int64, error) {
		var id int64
		err := sc.Scan(&id)
		return id, err
	})
}

// ListNoteIDsByBook returns the IDs of every note in a book.
func (s *Store) ListNoteIDsByBook(ctx context.Context, userID, bookID int64) ([]int64, error) {
	return s.noteIDs(ctx, `c.book_id = ? AND b.user_id = ?`, bookID, userID)
}

// ListNoteIDsByChapter returns the IDs of every note in a chapter.
func (s *Store) ListNoteIDsByChapter(ctx context.Context, userID, chapterID int64) ([]int64, error) {
	return s.noteIDs(ctx, `n.chapter_id = ? AND b.user_id = ?`, chapterID, userID)
}

// CountNotes returns the number of notes across all users.
func (s *Store) CountNotes(ctx context.Context) (int, error) {
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n)
	return n, err
}

// StreamNoteDocuments yields every note with its owner, for rebuilding the
// search index.
func (s *Store) StreamNoteDocuments(ctx context.Context) iter.Seq2[*domain.NoteDocument, error] {
	return func(yield func(*domain.NoteDocument, error) bool) {
		rows, err := s.query(ctx, `
			SELECT n.id, b.user_id, n.content, n.created_at
			FROM notes n
			JOIN chapters c ON c.id = n.chapter_id
			JOIN books b ON b.id = c.book_id
			ORDER BY n.id`)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}

			var (
				doc       domain.NoteDocument
				createdAt string
			)
			if err := rows.Scan(&doc.NoteID, &doc.UserID, &doc.Content, &createdAt); err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			doc.CreatedAt, err = parseTime(createdAt)
			if err != nil {
				if !yield(nil, fmt.Errorf("note %d: %w", doc.NoteID, err)) {
					return
				}
				continue
			}
			if !yield(&doc, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}
