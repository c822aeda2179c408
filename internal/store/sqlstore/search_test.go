package sqlstore

import (
	"context"
	"testing"
)

func testSearchNotes(t *testing.T, s *Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")

	book := mustBook(t, s, alice.ID, "Trip")
	chapter := mustChapter(t, s, book.ID, "Day 1")
	older := mustNote(t, s, chapter.ID, "<p>Packed the Cat carrier</p>")
	newer := mustNote(t, s, chapter.ID, "<p>cat food and water</p>")
	mustNote(t, s, chapter.ID, "<p>50% off tickets</p>")
	mustNote(t, s, mustChapter(t, s, mustBook(t, s, bob.ID, "Bob").ID, "x").ID, "<p>bob's cat</p>")

	results, err := s.SearchNotes(ctx, alice.ID, []string{"cat"}, 50)
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 2 || results[0].ID != newer.ID || results[1].ID != older.ID {
		t.Fatalf("SearchNotes: got %+v", results)
	}
	r := results[0]
	if r.ChapterName != "Day 1" || r.BookID != book.ID || r.BookName != "Trip" {
		t.Errorf("context fields: got %+v", r)
	}

	results, _ = s.SearchNotes(ctx, alice.ID, []string{"CAT", "carrier"}, 50)
	if len(results) != 1 || results[0].ID != older.ID {
		t.Errorf("all terms must match: got %+v", results)
	}

	results, _ = s.SearchNotes(ctx, alice.ID, []string{"cat"}, 1)
	if len(results) != 1 {
		t.Errorf("limit: got %d results", len(results))
	}

	// % is matched literally, not as a wildcard.
	results, _ = s.SearchNotes(ctx, alice.ID, []string{"0%"}, 50)
	if len(results) != 1 {
		t.Errorf("literal percent: got %d results", len(results))
	}
	results, _ = s.SearchNotes(ctx, alice.ID, []string{"t%s"}, 50)
	if len(results) != 0 {
		t.Errorf("percent must not act as wildcard: got %d results", len(results))
	}

	results, err = s.SearchNotes(ctx, alice.ID, nil, 50)
	if err != nil || results == nil || len(results) != 0 {
		t.Errorf("no terms: got %v, %v", results, err)
	}
}

func testGetNoteSearchResults(t *testing.T, s *Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")

	chapter := mustChapter(t, s, mustBook(t, s, alice.ID, "Trip").ID, "Day 1")
	a := mustNote(t, s, chapter.ID, "<p>a</p>")
	b := mustNote(t, s, chapter.ID, "<p>b</p>")
	foreign := mustNote(t, s, mustChapter(t, s, mustBook(t, s, bob.ID, "Bob").ID, "x").ID, "<p>c</p>")

	results, err := s.GetNoteSearchResults(ctx, alice.ID, []int64{a.ID, foreign.ID, b.ID})
	if err != nil {
		t.Fatalf("GetNoteSearchResults: %v", err)
	}
	if len(results) != 2 || results[0].ID != b.ID || results[1].ID != a.ID {
		t.Errorf("GetNoteSearchResults: got %+v", results)
	}

	results, err = s.GetNoteSearchResults(ctx, alice.ID, nil)
	if err != nil || len(results) != 0 {
		t.Errorf("no ids: got %v, %v", results, err)
	}
}
