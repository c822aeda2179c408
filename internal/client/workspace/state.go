// Package workspace holds the client's view of the user's books, chapters,
// notes, tags and search results, and the navigation state over them.
//
// All state changes go through Reduce, a pure function from (State, Action)
// to the next State plus the Effects to run. Store owns the single goroutine
// that applies actions and runs effects.
package workspace

import (
	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

// Slot identifies an independently loaded collection. Each slot carries a
// sequence number; a load result is applied only when its sequence is the
// latest issued for the slot.
type Slot int

const (
	SlotBooks Slot = iota
	SlotChapters
	SlotNotes
	SlotTags
	SlotSearch

	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotBooks:
		return "books"
	case SlotChapters:
		return "chapters"
	case SlotNotes:
		return "notes"
	case SlotTags:
		return "tags"
	case SlotSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Nav is the navigation state derived from the selections.
type Nav int

const (
	NoBookSelected Nav = iota
	BookSelected
	BookAndChapterSelected
)

func (n Nav) String() string {
	switch n {
	case BookSelected:
		return "book selected"
	case BookAndChapterSelected:
		return "book and chapter selected"
	default:
		return "no book selected"
	}
}

// SearchState is the search slot.
type SearchState struct {
	// Query is the query the current results belong to.
	Query   string
	Results []api.SearchResult
}

// State is an immutable snapshot. Reduce never mutates the slices of the
// State it receives.
type State struct {
	Authenticated bool

	Books    []api.Book
	Chapters []api.Chapter
	Notes    []api.Note
	Tags     []api.Tag
	Search   SearchState

	SelectedBookID    api.ID
	SelectedChapterID api.ID

	// PendingChapterID is selected instead of the first chapter when the
	// chapters of the selected book arrive. Set when opening a search result.
	PendingChapterID api.ID

	// KeepChapterCleared stops chapter loads from selecting the first
	// chapter after the selected one was deleted or deselected.
	KeepChapterCleared bool

	Seq     [slotCount]uint64
	Loading [slotCount]bool

	// LastError is the message of the most recent failure, cleared by the
	// next successful load or mutation.
	LastError string
}

// Nav returns the navigation state.
func (s State) Nav() Nav {
	switch {
	case s.SelectedBookID == "":
		return NoBookSelected
	case s.SelectedChapterID == "":
		return BookSelected
	default:
		return BookAndChapterSelected
	}
}

// SelectedBook returns the selected book, if any.
func (s State) SelectedBook() (api.Book, bool) {
	i := indexOf(s.Books, s.SelectedBookID, bookID)
	if i < 0 {
		return api.Book{}, false
	}
	return s.Books[i], true
}

// SelectedChapter returns the selected chapter, if any.
func (s State) SelectedChapter() (api.Chapter, bool) {
	i := indexOf(s.Chapters, s.SelectedChapterID, chapterID)
	if i < 0 {
		return api.Chapter{}, false
	}
	return s.Chapters[i], true
}

// IsLoading reports whether a load for slot is in flight.
func (s State) IsLoading(slot Slot) bool {
	return s.Loading[slot]
}

func (s *State) bump(slot Slot) uint64 {
	s.Seq[slot]++
	return s.Seq[slot]
}

// issue bumps slot and marks it loading. The returned sequence goes into the
// effect.
func (s *State) issue(slot Slot) uint64 {
	s.Loading[slot] = true
	return s.bump(slot)
}

// cancel invalidates any in-flight load for slot.
func (s *State) cancel(slot Slot) {
	s.bump(slot)
	s.Loading[slot] = false
}

// current reports whether seq is the latest issued for slot.
func (s State) current(slot Slot, seq uint64) bool {
	return s.Seq[slot] == seq
}

func bookID(b api.Book) api.ID       { return b.ID }
func chapterID(c api.Chapter) api.ID { return c.ID }
func noteID(n api.Note) api.ID       { return n.ID }
func tagID(t api.Tag) api.ID         { return t.ID }

func resultID(r api.SearchResult) api.ID { return r.ID }

func indexOf[T any](xs []T, id api.ID, key func(T) api.ID) int {
	if id == "" {
		return -1
	}
	for i, x := range xs {
		if key(x) == id {
			return i
		}
	}
	return -1
}

func appended[T any](xs []T, x T) []T {
	out := make([]T, 0, len(xs)+1)
	out = append(out, xs...)
	return append(out, x)
}

func prepended[T any](xs []T, x T) []T {
	out := make([]T, 0, len(xs)+1)
	out = append(out, x)
	return append(out, xs...)
}

// upserted swaps x in for the element with the same id, or adds it with add
// when xs has none. A reload that finished after the server committed x
// already lists it.
func upserted[T any](xs []T, x T, key func(T) api.ID, add func([]T, T) []T) []T {
	if indexOf(xs, key(x), key) >= 0 {
		return replaced(xs, x, key)
	}
	return add(xs, x)
}

// replaced returns xs with the element whose id matches x swapped for x. xs
// is returned unchanged when no element matches.
func replaced[T any](xs []T, x T, key func(T) api.ID) []T {
	i := indexOf(xs, key(x), key)
	if i < 0 {
		return xs
	}
	out := make([]T, len(xs))
	copy(out, xs)
	out[i] = x
	return out
}

func removed[T any](xs []T, id api.ID, key func(T) api.ID) []T {
	i := indexOf(xs, id, key)
	if i < 0 {
		return xs
	}
	out := make([]T, 0, len(xs)-1)
	out = append(out, xs[:i]...)
	return append(out, xs[i+1:]...)
}

