package workspace

import (
	"context"
	"fmt"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

// Start runs the initial load of books and tags. Wire it to the session's
// OnAuthenticated hook.
func (s *Store) Start(ctx context.Context) error {
	_, err := s.apply(ctx, Authenticated{})
	return err
}

// Reset clears all collections and selections. Wire it to the session's
// OnLogout hook.
func (s *Store) Reset(ctx context.Context) error {
	s.debouncer.Cancel()
	_, err := s.apply(ctx, LoggedOut{})
	return err
}

// Refresh reloads books and tags.
func (s *Store) Refresh(ctx context.Context) error {
	if _, err := s.apply(ctx, LoadBooks{}); err != nil {
		return err
	}
	_, err := s.apply(ctx, LoadTags{})
	return err
}

// SelectBook selects a loaded book and loads its chapters.
func (s *Store) SelectBook(ctx context.Context, id api.ID) error {
	_, err := s.apply(ctx, SelectBook{ID: id})
	return err
}

// DeselectBook clears the book and chapter selections without a request.
func (s *Store) DeselectBook(ctx context.Context) error {
	_, err := s.apply(ctx, DeselectBook{})
	return err
}

// SelectChapter selects a loaded chapter and loads its notes.
func (s *Store) SelectChapter(ctx context.Context, id api.ID) error {
	_, err := s.apply(ctx, SelectChapter{ID: id})
	return err
}

// Search feeds a keystroke-level query through the debouncer.
func (s *Store) Search(query string) {
	s.debouncer.Update(query)
}

// OpenResult navigates to the book and chapter a search result belongs to.
func (s *Store) OpenResult(ctx context.Context, r api.SearchResult) error {
	_, err := s.apply(ctx, OpenSearchResult{BookID: r.BookID, ChapterID: r.ChapterID})
	return err
}

// CreateBook creates a book and selects it.
func (s *Store) CreateBook(ctx context.Context, name string) (*api.Book, error) {
	book, err := s.api.CreateBook(ctx, name)
	if err != nil {
		return nil, s.fail(ctx, "create book", err)
	}
	if _, err := s.apply(ctx, BookCreated{Book: *book}); err != nil {
		return nil, err
	}
	return book, nil
}

// RenameBook renames a book.
func (s *Store) RenameBook(ctx context.Context, id api.ID, name string) (*api.Book, error) {
	book, err := s.api.UpdateBook(ctx, id, name)
	if err != nil {
		return nil, s.fail(ctx, "rename book", err)
	}
	if _, err := s.apply(ctx, BookUpdated{Book: *book}); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook deletes a book. Deleting the selected book clears the selection.
func (s *Store) DeleteBook(ctx context.Context, id api.ID) error {
	if err := s.api.DeleteBook(ctx, id); err != nil {
		return s.fail(ctx, "delete book", err)
	}
	_, err := s.apply(ctx, BookDeleted{ID: id})
	return err
}

// CreateChapter adds a chapter to the selected book and selects it.
func (s *Store) CreateChapter(ctx context.Context, name string) (*api.Chapter, error) {
	bookID := s.State().SelectedBookID
	if bookID == "" {
		return nil, ErrNoBookSelected
	}
	chapter, err := s.api.CreateChapter(ctx, bookID, name)
	if err != nil {
		return nil, s.fail(ctx, "create chapter", err)
	}
	if _, err := s.apply(ctx, ChapterCreated{Chapter: *chapter}); err != nil {
		return nil, err
	}
	return chapter, nil
}

// RenameChapter renames a chapter.
func (s *Store) RenameChapter(ctx context.Context, id api.ID, name string) (*api.Chapter, error) {
	chapter, err := s.api.UpdateChapter(ctx, id, name)
	if err != nil {
		return nil, s.fail(ctx, "rename chapter", err)
	}
	if _, err := s.apply(ctx, ChapterUpdated{Chapter: *chapter}); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter deletes a chapter.
func (s *Store) DeleteChapter(ctx context.Context, id api.ID) error {
	if err := s.api.DeleteChapter(ctx, id); err != nil {
		return s.fail(ctx, "delete chapter", err)
	}
	_, err := s.apply(ctx, ChapterDeleted{ID: id})
	return err
}

// CreateNote adds a note to the selected chapter.
func (s *Store) CreateNote(ctx context.Context, content string) (*api.Note, error) {
	chapterID := s.State().SelectedChapterID
	if chapterID == "" {
		return nil, ErrNoChapterSelected
	}
	note, err := s.api.CreateNote(ctx, chapterID, content)
	if err != nil {
		return nil, s.fail(ctx, "create note", err)
	}
	if _, err := s.apply(ctx, NoteCreated{Note: *note}); err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces a note's content.
func (s *Store) UpdateNote(ctx context.Context, id api.ID, content string) (*api.Note, error) {
	note, err := s.api.UpdateNote(ctx, id, content)
	if err != nil {
		return nil, s.fail(ctx, "update note", err)
	}
	if _, err := s.apply(ctx, NoteUpdated{Note: *note}); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote deletes a note.
func (s *Store) DeleteNote(ctx context.Context, id api.ID) error {
	if err := s.api.DeleteNote(ctx, id); err != nil {
		return s.fail(ctx, "delete note", err)
	}
	_, err := s.apply(ctx, NoteDeleted{ID: id})
	return err
}

// CreateTag creates a tag. An empty color takes the server default.
func (s *Store) CreateTag(ctx context.Context, name, color string) (*api.Tag, error) {
	tag, err := s.api.CreateTag(ctx, name, color)
	if err != nil {
		return nil, s.fail(ctx, "create tag", err)
	}
	if _, err := s.apply(ctx, TagCreated{Tag: *tag}); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag changes a tag's name or color.
func (s *Store) UpdateTag(ctx context.Context, id api.ID, update api.TagUpdate) (*api.Tag, error) {
	tag, err := s.api.UpdateTag(ctx, id, update)
	if err != nil {
		return nil, s.fail(ctx, "update tag", err)
	}
	if _, err := s.apply(ctx, TagUpdated{Tag: *tag}); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes a tag.
func (s *Store) DeleteTag(ctx context.Context, id api.ID) error {
	if err := s.api.DeleteTag(ctx, id); err != nil {
		return s.fail(ctx, "delete tag", err)
	}
	_, err := s.apply(ctx, TagDeleted{ID: id})
	return err
}

// fail logs a failed mutation, records it in the state and returns it
// wrapped with the operation name.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.logger.Warn("workspace operation failed", "op", op, "error", err)
	s.checkUnauthorized(err)
	_, _ = s.apply(ctx, OperationFailed{Op: op, Err: err})
	return fmt.Errorf("%s: %w", op, err)
}
