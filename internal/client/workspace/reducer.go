package workspace

import (
	"strings"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/search"
)

// Reduce applies a to s and returns the next state with the effects to run.
// It is pure: s is never modified in place.
func Reduce(s State, a Action) (State, []Effect) {
	var effects []Effect

	switch a := a.(type) {
	case Authenticated:
		s.Authenticated = true
		s.LastError = ""
		effects = append(effects, s.loadBooks(), s.loadTags())

	case LoggedOut:
		next := State{Seq: s.Seq}
		for slot := range slotCount {
			next.bump(slot)
		}
		return next, nil

	case LoadBooks:
		effects = append(effects, s.loadBooks())

	case LoadTags:
		effects = append(effects, s.loadTags())

	case SelectBook:
		switch {
		case a.ID == "":
			s.clearBook()
		case a.ID == s.SelectedBookID:
		case indexOf(s.Books, a.ID, bookID) >= 0:
			effects = append(effects, s.selectBook(a.ID, ""))
		}

	case DeselectBook:
		s.clearBook()

	case SelectChapter:
		switch {
		case a.ID == "":
			s.dropChapter()
		case a.ID == s.SelectedChapterID:
		case indexOf(s.Chapters, a.ID, chapterID) >= 0:
			effects = append(effects, s.selectChapter(a.ID))
		}

	case DeselectChapter:
		s.dropChapter()

	case OpenSearchResult:
		switch {
		case a.BookID != s.SelectedBookID:
			effects = append(effects, s.selectBook(a.BookID, a.ChapterID))
		case a.ChapterID == s.SelectedChapterID:
		case indexOf(s.Chapters, a.ChapterID, chapterID) >= 0:
			effects = append(effects, s.selectChapter(a.ChapterID))
		default:
			// Chapters of this book are still loading.
			s.PendingChapterID = a.ChapterID
		}

	case SearchRequested:
		if search.IsBlank(a.Query) {
			s.clearSearch()
			break
		}
		effects = append(effects, RunSearch{Seq: s.issue(SlotSearch), Query: strings.TrimSpace(a.Query)})

	case SearchCleared:
		s.clearSearch()

	case BooksLoaded:
		if !s.current(SlotBooks, a.Seq) {
			break
		}
		s.Loading[SlotBooks] = false
		if a.Err != nil {
			s.LastError = "Failed to load books: " + a.Err.Error()
			break
		}
		s.Books = a.Books
		if s.SelectedBookID != "" && indexOf(s.Books, s.SelectedBookID, bookID) < 0 {
			s.clearBook()
		}
		if s.SelectedBookID == "" && len(s.Books) > 0 {
			effects = append(effects, s.selectBook(s.Books[0].ID, ""))
		}

	case TagsLoaded:
		if !s.current(SlotTags, a.Seq) {
			break
		}
		s.Loading[SlotTags] = false
		if a.Err != nil {
			s.LastError = "Failed to load tags: " + a.Err.Error()
			break
		}
		s.Tags = a.Tags

	case ChaptersLoaded:
		if !s.current(SlotChapters, a.Seq) || a.BookID != s.SelectedBookID {
			break
		}
		s.Loading[SlotChapters] = false
		if a.Err != nil {
			s.LastError = "Failed to load chapters: " + a.Err.Error()
			break
		}
		s.Chapters = a.Chapters
		pending := s.PendingChapterID
		s.PendingChapterID = ""
		switch {
		case indexOf(s.Chapters, pending, chapterID) >= 0:
			effects = append(effects, s.selectChapter(pending))
		case s.KeepChapterCleared:
			s.clearChapter()
		case len(s.Chapters) > 0:
			effects = append(effects, s.selectChapter(s.Chapters[0].ID))
		default:
			s.clearChapter()
		}

	case NotesLoaded:
		if !s.current(SlotNotes, a.Seq) || a.ChapterID != s.SelectedChapterID {
			break
		}
		s.Loading[SlotNotes] = false
		if a.Err != nil {
			s.LastError = "Failed to load notes: " + a.Err.Error()
			break
		}
		s.Notes = a.Notes

	case SearchLoaded:
		if !s.current(SlotSearch, a.Seq) {
			break
		}
		s.Loading[SlotSearch] = false
		s.Search = SearchState{Query: a.Query, Results: a.Results}
		if a.Err != nil {
			s.Search.Results = nil
			s.LastError = "Failed to search: " + a.Err.Error()
		}

	case BookCreated:
		s.LastError = ""
		s.Books = upserted(s.Books, a.Book, bookID, appended)
		effects = append(effects, s.reloadIfLoading(SlotBooks)...)
		effects = append(effects, s.selectBook(a.Book.ID, ""))

	case BookUpdated:
		s.LastError = ""
		s.Books = replaced(s.Books, a.Book, bookID)
		s.Search.Results = mapResults(s.Search.Results, func(r *api.SearchResult) {
			if r.BookID == a.Book.ID {
				r.BookName = a.Book.Name
			}
		})
		effects = append(effects, s.reloadIfLoading(SlotBooks)...)

	case BookDeleted:
		s.LastError = ""
		s.Books = removed(s.Books, a.ID, bookID)
		if s.SelectedBookID == a.ID {
			s.clearBook()
		}
		s.Search.Results = filterResults(s.Search.Results, func(r api.SearchResult) bool { return r.BookID != a.ID })
		effects = append(effects, s.reloadIfLoading(SlotBooks)...)

	case ChapterCreated:
		s.LastError = ""
		if a.Chapter.BookID == s.SelectedBookID {
			s.Chapters = upserted(s.Chapters, a.Chapter, chapterID, appended)
			effects = append(effects, s.selectChapter(a.Chapter.ID))
			if s.Loading[SlotChapters] {
				s.PendingChapterID = a.Chapter.ID
				effects = append(effects, s.reloadChapters())
			}
		}
		effects = append(effects, s.loadBooks())

	case ChapterUpdated:
		s.LastError = ""
		s.Chapters = replaced(s.Chapters, a.Chapter, chapterID)
		s.Search.Results = mapResults(s.Search.Results, func(r *api.SearchResult) {
			if r.ChapterID == a.Chapter.ID {
				r.ChapterName = a.Chapter.Name
			}
		})
		effects = append(effects, s.reloadIfLoading(SlotChapters)...)

	case ChapterDeleted:
		s.LastError = ""
		s.Chapters = removed(s.Chapters, a.ID, chapterID)
		if s.SelectedChapterID == a.ID {
			s.dropChapter()
		}
		if s.PendingChapterID == a.ID {
			s.PendingChapterID = ""
		}
		s.Search.Results = filterResults(s.Search.Results, func(r api.SearchResult) bool { return r.ChapterID != a.ID })
		effects = append(effects, s.reloadIfLoading(SlotChapters)...)
		effects = append(effects, s.loadBooks())

	case NoteCreated:
		s.LastError = ""
		if a.Note.ChapterID == s.SelectedChapterID {
			s.Notes = upserted(s.Notes, a.Note, noteID, prepended)
			effects = append(effects, s.reloadIfLoading(SlotNotes)...)
		}
		effects = append(effects, s.loadBooks())

	case NoteUpdated:
		s.LastError = ""
		s.Notes = replaced(s.Notes, a.Note, noteID)
		s.Search.Results = mapResults(s.Search.Results, func(r *api.SearchResult) {
			if r.ID == a.Note.ID {
				r.Note = a.Note
			}
		})
		effects = append(effects, s.reloadIfLoading(SlotNotes)...)

	case NoteDeleted:
		s.LastError = ""
		s.Notes = removed(s.Notes, a.ID, noteID)
		s.Search.Results = removed(s.Search.Results, a.ID, resultID)
		effects = append(effects, s.reloadIfLoading(SlotNotes)...)
		effects = append(effects, s.loadBooks())

	case TagCreated:
		s.LastError = ""
		s.Tags = upserted(s.Tags, a.Tag, tagID, appended)
		effects = append(effects, s.reloadIfLoading(SlotTags)...)

	case TagUpdated:
		s.LastError = ""
		s.Tags = replaced(s.Tags, a.Tag, tagID)
		effects = append(effects, s.reloadIfLoading(SlotTags)...)

	case TagDeleted:
		s.LastError = ""
		s.Tags = removed(s.Tags, a.ID, tagID)
		effects = append(effects, s.reloadIfLoading(SlotTags)...)

	case OperationFailed:
		if a.Err != nil {
			s.LastError = "Failed to " + a.Op + ": " + a.Err.Error()
		}
	}

	return s, effects
}

func (s *State) loadBooks() Effect {
	return FetchBooks{Seq: s.issue(SlotBooks)}
}

func (s *State) loadTags() Effect {
	return FetchTags{Seq: s.issue(SlotTags)}
}

func (s *State) reloadChapters() Effect {
	return FetchChapters{Seq: s.issue(SlotChapters), BookID: s.SelectedBookID}
}

// reloadIfLoading reissues the load of slot when one is in flight, since
// its result predates the mutation being applied.
func (s *State) reloadIfLoading(slot Slot) []Effect {
	if !s.Loading[slot] {
		return nil
	}
	switch slot {
	case SlotBooks:
		return []Effect{s.loadBooks()}
	case SlotTags:
		return []Effect{s.loadTags()}
	case SlotChapters:
		if s.SelectedBookID != "" {
			if s.PendingChapterID == "" {
				s.PendingChapterID = s.SelectedChapterID
			}
			return []Effect{s.reloadChapters()}
		}
	case SlotNotes:
		if s.SelectedChapterID != "" {
			return []Effect{FetchNotes{Seq: s.issue(SlotNotes), ChapterID: s.SelectedChapterID}}
		}
	}
	return nil
}

// selectBook selects id and starts loading its chapters. pendingChapter, if
// set, is selected when they arrive.
func (s *State) selectBook(id, pendingChapter api.ID) Effect {
	s.clearChapter()
	s.SelectedBookID = id
	s.PendingChapterID = pendingChapter
	s.KeepChapterCleared = false
	s.Chapters = nil
	return s.reloadChapters()
}

func (s *State) clearBook() {
	s.clearChapter()
	s.SelectedBookID = ""
	s.PendingChapterID = ""
	s.KeepChapterCleared = false
	s.Chapters = nil
	s.cancel(SlotChapters)
}

func (s *State) selectChapter(id api.ID) Effect {
	s.SelectedChapterID = id
	s.KeepChapterCleared = false
	s.Notes = nil
	return FetchNotes{Seq: s.issue(SlotNotes), ChapterID: id}
}

// dropChapter clears the chapter selection and keeps it cleared across
// chapter reloads until something is selected again.
func (s *State) dropChapter() {
	s.clearChapter()
	s.PendingChapterID = ""
	s.KeepChapterCleared = true
}

func (s *State) clearChapter() {
	s.SelectedChapterID = ""
	s.Notes = nil
	s.cancel(SlotNotes)
}

func (s *State) clearSearch() {
	s.cancel(SlotSearch)
	s.Search = SearchState{}
}

func mapResults(rs []api.SearchResult, fn func(*api.SearchResult)) []api.SearchResult {
	if len(rs) == 0 {
		return rs
	}
	out := make([]api.SearchResult, len(rs))
	copy(out, rs)
	for i := range out {
		fn(&out[i])
	}
	return out
}

func filterResults(rs []api.SearchResult, keep func(api.SearchResult) bool) []api.SearchResult {
	var out []api.SearchResult
	for _, r := range rs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
