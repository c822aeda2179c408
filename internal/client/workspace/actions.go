package workspace

import (
	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

// Action is an input to Reduce.
type Action interface {
	action()
}

// Session transitions.
type (
	// Authenticated starts the initial load of books and tags.
	Authenticated struct{}
	// LoggedOut resets all collections and selections.
	LoggedOut struct{}
)

// Navigation and refresh intents.
type (
	LoadBooks     struct{}
	LoadTags      struct{}
	SelectBook    struct{ ID api.ID }
	DeselectBook  struct{}
	SelectChapter struct{ ID api.ID }
	// DeselectChapter clears the chapter selection and the notes.
	DeselectChapter struct{}
	// OpenSearchResult navigates to the book and chapter of a result.
	OpenSearchResult struct {
		BookID    api.ID
		ChapterID api.ID
	}
	// SearchRequested is a debounced, non-blank query.
	SearchRequested struct{ Query string }
	SearchCleared   struct{}
)

// Load results, posted by effects. Seq is copied from the effect.
type (
	BooksLoaded struct {
		Seq   uint64
		Books []api.Book
		Err   error
	}
	TagsLoaded struct {
		Seq  uint64
		Tags []api.Tag
		Err  error
	}
	ChaptersLoaded struct {
		Seq      uint64
		BookID   api.ID
		Chapters []api.Chapter
		Err      error
	}
	NotesLoaded struct {
		Seq       uint64
		ChapterID api.ID
		Notes     []api.Note
		Err       error
	}
	SearchLoaded struct {
		Seq     uint64
		Query   string
		Results []api.SearchResult
		Err     error
	}
)

// Confirmed mutations. Each carries the entity the server returned.
type (
	BookCreated    struct{ Book api.Book }
	BookUpdated    struct{ Book api.Book }
	BookDeleted    struct{ ID api.ID }
	ChapterCreated struct{ Chapter api.Chapter }
	ChapterUpdated struct{ Chapter api.Chapter }
	ChapterDeleted struct{ ID api.ID }
	NoteCreated    struct{ Note api.Note }
	NoteUpdated    struct{ Note api.Note }
	NoteDeleted    struct{ ID api.ID }
	TagCreated     struct{ Tag api.Tag }
	TagUpdated     struct{ Tag api.Tag }
	TagDeleted     struct{ ID api.ID }
)

// OperationFailed records a failed mutation. Collections are left untouched.
type OperationFailed struct {
	Op  string
	Err error
}

func (Authenticated) action()    {}
func (LoggedOut) action()        {}
func (LoadBooks) action()        {}
func (LoadTags) action()         {}
func (SelectBook) action()       {}
func (DeselectBook) action()     {}
func (SelectChapter) action()    {}
func (DeselectChapter) action()  {}
func (OpenSearchResult) action() {}
func (SearchRequested) action()  {}
func (SearchCleared) action()    {}
func (BooksLoaded) action()      {}
func (TagsLoaded) action()       {}
func (ChaptersLoaded) action()   {}
func (NotesLoaded) action()      {}
func (SearchLoaded) action()     {}
func (BookCreated) action()      {}
func (BookUpdated) action()      {}
func (BookDeleted) action()      {}
func (ChapterCreated) action()   {}
func (ChapterUpdated) action()   {}
func (ChapterDeleted) action()   {}
func (NoteCreated) action()      {}
func (NoteUpdated) action()      {}
func (NoteDeleted) action()      {}
func (TagCreated) action()       {}
func (TagUpdated) action()       {}
func (TagDeleted) action()       {}
func (OperationFailed) action()  {}

// Effect is work requested by Reduce. Store runs effects asynchronously and
// posts their results back as actions.
type Effect interface {
	effect()
}

type (
	FetchBooks    struct{ Seq uint64 }
	FetchTags     struct{ Seq uint64 }
	FetchChapters struct {
		Seq    uint64
		BookID api.ID
	}
	FetchNotes struct {
		Seq       uint64
		ChapterID api.ID
	}
	RunSearch struct {
		Seq   uint64
		Query string
	}
)

func (FetchBooks) effect()    {}
func (FetchTags) effect()     {}
func (FetchChapters) effect() {}
func (FetchNotes) effect()    {}
func (RunSearch) effect()     {}
