package sqlstore

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/notekeeperapp/notekeeper/internal/store"
)

func testChapters(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "chapters@example.com")
	book := mustBook(t, s, u.ID, "Trip")

	day1 := mustChapter(t, s, book.ID, "Day 1")
	day2 := mustChapter(t, s, book.ID, "Day 2")

	chapters, err := s.ListChapters(ctx, u.ID, book.ID)
	if err != nil {
		t.Fatalf("ListChapters: %v", err)
	}
	if len(chapters) != 2 || chapters[0].ID != day1.ID || chapters[1].ID != day2.ID {
		t.Fatalf("ListChapters order: got %+v", chapters)
	}
	if chapters[0].BookID != book.ID {
		t.Errorf("BookID: got %d, want %d", chapters[0].BookID, book.ID)
	}

	day1.Name = "Arrival"
	day1.UpdatedAt = tick()
	if err := s.UpdateChapter(ctx, u.ID, day1); err != nil {
		t.Fatalf("UpdateChapter: %v", err)
	}
	got, err := s.GetChapter(ctx, u.ID, day1.ID)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if got.Name != "Arrival" {
		t.Errorf("Name: got %q", got.Name)
	}

	if err := s.DeleteChapter(ctx, u.ID, day2.ID); err != nil {
		t.Fatalf("DeleteChapter: %v", err)
	}
	if _, err := s.GetChapter(ctx, u.ID, day2.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetChapter after delete: got %v", err)
	}
}

func testNotes(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "notes@example.com")
	chapter := mustChapter(t, s, mustBook(t, s, u.ID, "Trip").ID, "Day 1")

	first := mustNote(t, s, chapter.ID, "<p>first</p>")
	second := mustNote(t, s, chapter.ID, "<p>second</p>")

	notes, err := s.ListNotes(ctx, u.ID, chapter.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != second.ID || notes[1].ID != first.ID {
		t.Fatalf("ListNotes should be newest first: got %+v", notes)
	}

	first.Content = "<p>edited</p>"
	first.UpdatedAt = tick()
	if err := s.UpdateNote(ctx, u.ID, first); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	got, err := s.GetNote(ctx, u.ID, first.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Content != "<p>edited</p>" || got.ChapterID != chapter.ID {
		t.Errorf("GetNote: got %+v", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, first.CreatedAt)
	}

	if err := s.DeleteNote(ctx, u.ID, first.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := s.GetNote(ctx, u.ID, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetNote after delete: got %v", err)
	}
}

func testNoteCount(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "count@example.com")
	book := mustBook(t, s, u.ID, "Trip")
	other := mustBook(t, s, u.ID, "Other")
	day1 := mustChapter(t, s, book.ID, "Day 1")
	day2 := mustChapter(t, s, book.ID, "Day 2")

	mustNote(t, s, day1.ID, "<p>a</p>")
	mustNote(t, s, day1.ID, "<p>b</p>")
	n := mustNote(t, s, day2.ID, "<p>c</p>")

	books, err := s.ListBooks(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	counts := map[int64]int{}
	for _, b := range books {
		counts[b.ID] = b.NoteCount
	}
	if counts[book.ID] != 3 || counts[other.ID] != 0 {
		t.Errorf("note counts: got %v", counts)
	}

	if err := s.DeleteNote(ctx, u.ID, n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	got, _ := s.GetBook(ctx, u.ID, book.ID)
	if got.NoteCount != 2 {
		t.Errorf("NoteCount after delete: got %d, want 2", got.NoteCount)
	}

	total, err := s.CountNotes(ctx)
	if err != nil {
		t.Fatalf("CountNotes: %v", err)
	}
	if total != 2 {
		t.Errorf("CountNotes: got %d, want 2", total)
	}
}

func testCascadeDelete(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "cascade@example.com")
	book := mustBook(t, s, u.ID, "Trip")
	chapter := mustChapter(t, s, book.ID, "Day 1")
	note := mustNote(t, s, chapter.ID, "<p>x</p>")

	if err := s.DeleteBook(ctx, u.ID, book.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if _, err := s.GetChapter(ctx, u.ID, chapter.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("chapter survived book delete: %v", err)
	}
	if _, err := s.GetNote(ctx, u.ID, note.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("note survived book delete: %v", err)
	}

	var rows int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&rows); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if rows != 0 {
		t.Errorf("notes table still has %d rows", rows)
	}
}

func testNoteIDs(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "ids@example.com")
	book := mustBook(t, s, u.ID, "Trip")
	day1 := mustChapter(t, s, book.ID, "Day 1")
	day2 := mustChapter(t, s, book.ID, "Day 2")
	a := mustNote(t, s, day1.ID, "<p>a</p>")
	b := mustNote(t, s, day2.ID, "<p>b</p>")

	ids, err := s.ListNoteIDsByBook(ctx, u.ID, book.ID)
	if err != nil {
		t.Fatalf("ListNoteIDsByBook: %v", err)
	}
	if !slices.Equal(ids, []int64{a.ID, b.ID}) {
		t.Errorf("ListNoteIDsByBook: got %v", ids)
	}

	ids, err = s.ListNoteIDsByChapter(ctx, u.ID, day2.ID)
	if err != nil {
		t.Fatalf("ListNoteIDsByChapter: %v", err)
	}
	if !slices.Equal(ids, []int64{b.ID}) {
		t.Errorf("ListNoteIDsByChapter: got %v", ids)
	}
}

func testStreamNoteDocuments(t *testing.T, s *Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")
	mustNote(t, s, mustChapter(t, s, mustBook(t, s, alice.ID, "A").ID, "c").ID, "<p>alice</p>")
	mustNote(t, s, mustChapter(t, s, mustBook(t, s, bob.ID, "B").ID, "c").ID, "<p>bob</p>")

	owners := map[string]int64{}
	for doc, err := range s.StreamNoteDocuments(ctx) {
		if err != nil {
			t.Fatalf("StreamNoteDocuments: %v", err)
		}
		owners[doc.Content] = doc.UserID
	}
	if owners["<p>alice</p>"] != alice.ID || owners["<p>bob</p>"] != bob.ID {
		t.Errorf("owners: got %v", owners)
	}
}
