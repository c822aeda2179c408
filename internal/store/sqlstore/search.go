package sqlstore

import (
	"context"
	"strings"

	"github.com/notekeeperapp/notekeeper/internal/domain"
)

// searchSelect must match the scan order in scanSearchResult.
const searchSelect = `
	SELECT n.id, n.chapter_id, n.content, n.created_at, n.updated_at,
		c.name, b.id, b.name
	FROM notes n
	JOIN chapters c ON c.id = n.chapter_id
	JOIN books b ON b.id = c.book_id`

func scanSearchResult(sc scanner) (*domain.NoteSearchResult, error) {
	var (
		r         domain.NoteSearchResult
		createdAt string
		updatedAt string
	)
	err := sc.Scan(
		&r.ID, &r.ChapterID, &r.Content, &createdAt, &updatedAt,
		&r.ChapterName, &r.BookID, &r.BookName,
	)
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetNoteSearchResults loads the user's notes with the given IDs together
// with their chapter and book names, newest first. IDs the user does not own
// are skipped.
func (s *Store) GetNoteSearchResults(ctx context.Context, userID int64, noteIDs []int64) ([]*domain.NoteSearchResult, error) {
	if len(noteIDs) == 0 {
		return []*domain.NoteSearchResult{}, nil
	}
	args := append([]any{userID}, int64Args(noteIDs)...)
	rows, err := s.query(ctx,
		searchSelect+` WHERE b.user_id = ? AND n.id IN (`+placeholders(len(noteIDs))+`)`+noteOrder,
		args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSearchResult)
}

// SearchNotes finds the user's notes whose content contains every term,
// ignoring case. It serves when the full-text index is disabled; terms are
// matched against stored HTML.
func (s *Store) SearchNotes(ctx context.Context, userID int64, terms []string, limit int) ([]*domain.NoteSearchResult, error) {
	if len(terms) == 0 {
		return []*domain.NoteSearchResult{}, nil
	}

	var where strings.Builder
	where.WriteString(` WHERE b.user_id = ?`)
	args := []any{userID}
	for _, term := range terms {
		where.WriteString(` AND LOWER(n.content) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	args = append(args, limit)

	rows, err := s.query(ctx, searchSelect+where.String()+noteOrder+` LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSearchResult)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
