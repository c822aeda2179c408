package service

import (
	"context"
	"log/slog"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// ChapterService manages the chapters inside a user's books.
type ChapterService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewChapterService creates a new chapter service.
func NewChapterService(store store.Store, search *SearchService, logger *slog.Logger) *ChapterService {
	return &ChapterService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// CreateChapterRequest holds the fields of a new chapter.
type CreateChapterRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateChapterRequest holds the fields that can change on a chapter.
type UpdateChapterRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

// ListChapters returns the chapters of one of the user's books in creation order.
func (s *ChapterService) ListChapters(ctx context.Context, userID, bookID int64) ([]*domain.Chapter, error) {
	if _, err := s.store.GetBook(ctx, userID, bookID); err != nil {
		return nil, notFoundAs(err, msgBookNotFound)
	}
	return s.store.ListChapters(ctx, userID, bookID)
}

// GetChapter returns one of the user's chapters.
func (s *ChapterService) GetChapter(ctx context.Context, userID, id int64) (*domain.Chapter, error) {
	ch, err := s.store.GetChapter(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, msgChapterNotFound)
	}
	return ch, nil
}

// CreateChapter adds a chapter to one of the user's books.
func (s *ChapterService) CreateChapter(ctx context.Context, userID, bookID int64, req CreateChapterRequest) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.store.GetBook(ctx, userID, bookID); err != nil {
		return nil, notFoundAs(err, msgBookNotFound)
	}

	ts := now()
	ch := &domain.Chapter{
		BookID:    bookID,
		Name:      req.Name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.store.CreateChapter(ctx, ch); err != nil {
		return nil, err
	}

	s.logger.Info("chapter created", "chapter_id", ch.ID, "book_id", bookID, "user_id", userID)
	return ch, nil
}

// UpdateChapter applies req to one of the user's chapters.
func (s *ChapterService) UpdateChapter(ctx context.Context, userID, id int64, req UpdateChapterRequest) (*domain.Chapter, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	ch, err := s.GetChapter(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		ch.Name = *req.Name
	}
	ch.Touch()

	if err := s.store.UpdateChapter(ctx, userID, ch); err != nil {
		return nil, notFoundAs(err, msgChapterNotFound)
	}
	return ch, nil
}

// DeleteChapter deletes one of the user's chapters with its notes and drops
// those notes from the search index.
func (s *ChapterService) DeleteChapter(ctx context.Context, userID, id int64) error {
	noteIDs, err := s.store.ListNoteIDsByChapter(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteChapter(ctx, userID, id); err != nil {
		return notFoundAs(err, msgChapterNotFound)
	}
	s.search.DeleteNotes(ctx, noteIDs...)

	s.logger.Info("chapter deleted", "chapter_id", id, "user_id", userID, "notes", len(noteIDs))
	return nil
}
