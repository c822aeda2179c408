package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/search"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// SearchService answers note searches and keeps the full-text index in sync
// with the store. With a nil index it falls back to the store's LIKE search
// and every index operation is a no-op.
type SearchService struct {
	index  *search.NoteIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.NoteIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: orDiscard(logger),
	}
}

// IndexEnabled reports whether searches go through the full-text index.
func (s *SearchService) IndexEnabled() bool {
	return s.index != nil
}

// SearchNotes returns the user's notes matching every whitespace separated
// term of query, newest first and at most SearchLimit of them. A blank query
// matches nothing. Queries the index cannot tokenize, punctuation only, go to
// the store's LIKE search.
func (s *SearchService) SearchNotes(ctx context.Context, userID int64, query string) ([]*domain.NoteSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.NoteSearchResult{}, nil
	}

	if s.index == nil {
		return s.store.SearchNotes(ctx, userID, strings.Fields(query), SearchLimit)
	}

	ids, err := s.index.Search(ctx, userID, query, SearchLimit)
	if errors.Is(err, search.ErrNoTerms) {
		return s.store.SearchNotes(ctx, userID, strings.Fields(query), SearchLimit)
	}
	if err != nil {
		return nil, err
	}
	return s.store.GetNoteSearchResults(ctx, userID, ids)
}

// IndexNote adds or replaces a note in the index. Failures are logged, not
// returned: the database stays the source of truth and a reindex repairs the
// index.
func (s *SearchService) IndexNote(ctx context.Context, userID int64, note *domain.Note) {
	if s.index == nil {
		return
	}
	doc := &domain.NoteDocument{
		NoteID:    note.ID,
		UserID:    userID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
	if err := s.index.IndexNote(ctx, doc); err != nil {
		s.logger.Warn("failed to index note", "note_id", note.ID, "error", err)
	}
}

// DeleteNotes removes notes from the index, logging failures.
func (s *SearchService) DeleteNotes(ctx context.Context, noteIDs ...int64) {
	if s.index == nil || len(noteIDs) == 0 {
		return
	}
	if err := s.index.DeleteNotes(ctx, noteIDs...); err != nil {
		s.logger.Warn("failed to remove notes from index", "count", len(noteIDs), "error", err)
	}
}

// ReindexIfEmpty rebuilds the index when it holds no documents but the store
// has notes, which happens after the index was recreated or first enabled.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	indexed, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count indexed notes: %w", err)
	}
	if indexed > 0 {
		return nil
	}

	stored, err := s.store.CountNotes(ctx)
	if err != nil {
		return fmt.Errorf("count notes: %w", err)
	}
	if stored == 0 {
		return nil
	}

	s.logger.Info("search index is empty, reindexing", "notes", stored)
	return s.ReindexAll(ctx)
}

// ReindexAll drops the index and rebuilds it from every note in the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	start := time.Now()
	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	n, err := s.index.IndexAll(ctx, s.store.StreamNoteDocuments(ctx))
	if err != nil {
		return fmt.Errorf("reindex notes: %w", err)
	}

	s.logger.Info("search reindex complete", "notes", n, "duration", time.Since(start))
	return nil
}

// IndexedNotes returns the number of documents in the full-text index, or
// zero when the index is disabled.
func (s *SearchService) IndexedNotes() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}
