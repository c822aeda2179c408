// Package store defines the persistence interface for the NoteKeeper server.
package store

import (
	"context"
	"iter"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
)

// Store defines every persistence operation. Reads and writes of user-owned
// entities are scoped by userID; an entity owned by someone else is
// ErrNotFound.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, passwordHash string, at time.Time) error

	// Password reset tokens
	CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id int64) error

	// Books
	ListBooks(ctx context.Context, userID int64) ([]*domain.Book, error)
	GetBook(ctx context.Context, userID, id int64) (*domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book) error
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, userID, id int64) error

	// Chapters
	ListChapters(ctx context.Context, userID, bookID int64) ([]*domain.Chapter, error)
	GetChapter(ctx context.Context, userID, id int64) (*domain.Chapter, error)
	CreateChapter(ctx context.Context, chapter *domain.Chapter) error
	UpdateChapter(ctx context.Context, userID int64, chapter *domain.Chapter) error
	DeleteChapter(ctx context.Context, userID, id int64) error

	// Notes
	ListNotes(ctx context.Context, userID, chapterID int64) ([]*domain.Note, error)
	GetNote(ctx context.Context, userID, id int64) (*domain.Note, error)
	CreateNote(ctx context.Context, note *domain.Note) error
	UpdateNote(ctx context.Context, userID int64, note *domain.Note) error
	DeleteNote(ctx context.Context, userID, id int64) error
	ListNoteIDsByBook(ctx context.Context, userID, bookID int64) ([]int64, error)
	ListNoteIDsByChapter(ctx context.Context, userID, chapterID int64) ([]int64, error)
	CountNotes(ctx context.Context) (int, error)
	StreamNoteDocuments(ctx context.Context) iter.Seq2[*domain.NoteDocument, error]

	// Search
	GetNoteSearchResults(ctx context.Context, userID int64, noteIDs []int64) ([]*domain.NoteSearchResult, error)
	SearchNotes(ctx context.Context, userID int64, terms []string, limit int) ([]*domain.NoteSearchResult, error)

	// Tags
	ListTags(ctx context.Context, userID int64) ([]*domain.Tag, error)
	GetTag(ctx context.Context, userID, id int64) (*domain.Tag, error)
	CreateTag(ctx context.Context, tag *domain.Tag) error
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, userID, id int64) error
}

// NoteIndexer keeps a full-text index of notes in sync with the store.
type NoteIndexer interface {
	IndexNote(ctx context.Context, doc *domain.NoteDocument) error
	DeleteNotes(ctx context.Context, noteIDs ...int64) error
}

// NoopNoteIndexer is used when full-text indexing is disabled.
type NoopNoteIndexer struct{}

// IndexNote is a no-op.
func (NoopNoteIndexer) IndexNote(context.Context, *domain.NoteDocument) error { return nil }

// DeleteNotes is a no-op.
func (NoopNoteIndexer) DeleteNotes(context.Context, ...int64) error { return nil }
