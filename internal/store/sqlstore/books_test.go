package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/notekeeperapp/notekeeper/internal/store"
)

func testBooks(t *testing.T, s *Store) {
	ctx := context.Background()
	u := mustUser(t, s, "books@example.com")

	empty, err := s.ListBooks(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListBooks on empty store: got %v, want empty non-nil slice", empty)
	}

	trip := mustBook(t, s, u.ID, "Trip")
	work := mustBook(t, s, u.ID, "Work")

	books, err := s.ListBooks(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(books) != 2 || books[0].ID != trip.ID || books[1].ID != work.ID {
		t.Fatalf("ListBooks order: got %+v", books)
	}

	trip.Name = "Summer trip"
	trip.UpdatedAt = tick()
	if err := s.UpdateBook(ctx, trip); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}
	got, err := s.GetBook(ctx, u.ID, trip.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Name != "Summer trip" || !got.UpdatedAt.Equal(trip.UpdatedAt) {
		t.Errorf("GetBook after update: got %+v", got)
	}
	if got.NoteCount != 0 {
		t.Errorf("NoteCount: got %d, want 0", got.NoteCount)
	}

	if err := s.DeleteBook(ctx, u.ID, trip.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if _, err := s.GetBook(ctx, u.ID, trip.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBook after delete: got %v", err)
	}
	if err := s.DeleteBook(ctx, u.ID, trip.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteBook: got %v", err)
	}
}

func testBookOwnership(t *testing.T, s *Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")

	book := mustBook(t, s, alice.ID, "Private")
	chapter := mustChapter(t, s, book.ID, "Secrets")
	note := mustNote(t, s, chapter.ID, "<p>hidden</p>")

	if _, err := s.GetBook(ctx, bob.ID, book.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBook as other user: got %v", err)
	}
	if _, err := s.GetChapter(ctx, bob.ID, chapter.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetChapter as other user: got %v", err)
	}
	if _, err := s.GetNote(ctx, bob.ID, note.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetNote as other user: got %v", err)
	}

	stolen := *book
	stolen.UserID = bob.ID
	stolen.Name = "Mine now"
	if err := s.UpdateBook(ctx, &stolen); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateBook as other user: got %v", err)
	}
	if err := s.UpdateChapter(ctx, bob.ID, chapter); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateChapter as other user: got %v", err)
	}
	if err := s.UpdateNote(ctx, bob.ID, note); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateNote as other user: got %v", err)
	}
	if err := s.DeleteNote(ctx, bob.ID, note.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteNote as other user: got %v", err)
	}
	if err := s.DeleteChapter(ctx, bob.ID, chapter.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteChapter as other user: got %v", err)
	}
	if err := s.DeleteBook(ctx, bob.ID, book.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteBook as other user: got %v", err)
	}

	books, _ := s.ListBooks(ctx, bob.ID)
	if len(books) != 0 {
		t.Errorf("ListBooks as other user: got %d books", len(books))
	}
	chapters, _ := s.ListChapters(ctx, bob.ID, book.ID)
	if len(chapters) != 0 {
		t.Errorf("ListChapters as other user: got %d chapters", len(chapters))
	}
	notes, _ := s.ListNotes(ctx, bob.ID, chapter.ID)
	if len(notes) != 0 {
		t.Errorf("ListNotes as other user: got %d notes", len(notes))
	}

	// Nothing was changed by the failed attempts.
	got, err := s.GetBook(ctx, alice.ID, book.ID)
	if err != nil {
		t.Fatalf("GetBook as owner: %v", err)
	}
	if got.Name != "Private" || got.NoteCount != 1 {
		t.Errorf("owner's book changed: %+v", got)
	}
}
