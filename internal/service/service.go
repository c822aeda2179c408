// Package service holds the NoteKeeper business logic between the HTTP API
// and the store: validation, ownership checks and keeping the search index
// in sync.
package service

import (
	"errors"
	"log/slog"
	"time"

	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/store"
	"github.com/notekeeperapp/notekeeper/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// SearchLimit caps the number of notes a search returns.
const SearchLimit = 50

// Not-found messages, shared with the API so responses match exactly.
const (
	msgBookNotFound    = "Book not found"
	msgChapterNotFound = "Chapter not found"
	msgNoteNotFound    = "Note not found"
	msgTagNotFound     = "Tag not found"
)

// notFoundAs converts store.ErrNotFound into a NOT_FOUND domain error with
// msg. Other errors pass through unchanged.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg).WithCause(err)
	}
	return err
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

func now() time.Time {
	return time.Now().UTC()
}
