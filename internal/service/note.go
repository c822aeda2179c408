package service

import (
	"context"
	"log/slog"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// MaxNoteContent is the largest normalized note body accepted, in bytes.
const MaxNoteContent = 1_000_000

// NoteService manages notes and keeps the search index current.
type NoteService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.Store, search *SearchService, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// CreateNoteRequest holds the body of a new note as rich HTML.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateNoteRequest holds the fields that can change on a note.
type UpdateNoteRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// ListNotes returns the notes of one of the user's chapters, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID, chapterID int64) ([]*domain.Note, error) {
	if _, err := s.store.GetChapter(ctx, userID, chapterID); err != nil {
		return nil, notFoundAs(err, msgChapterNotFound)
	}
	return s.store.ListNotes(ctx, userID, chapterID)
}

// GetNote returns one of the user's notes.
func (s *NoteService) GetNote(ctx context.Context, userID, id int64) (*domain.Note, error) {
	n, err := s.store.GetNote(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, msgNoteNotFound)
	}
	return n, nil
}

// CreateNote adds a note to one of the user's chapters. The content is
// stored in canonical form.
func (s *NoteService) CreateNote(ctx context.Context, userID, chapterID int64, req CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetChapter(ctx, userID, chapterID); err != nil {
		return nil, notFoundAs(err, msgChapterNotFound)
	}

	ts := now()
	n := &domain.Note{
		ChapterID: chapterID,
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.store.CreateNote(ctx, n); err != nil {
		return nil, err
	}
	s.search.IndexNote(ctx, userID, n)

	s.logger.Info("note created", "note_id", n.ID, "chapter_id", chapterID, "user_id", userID)
	return n, nil
}

// UpdateNote applies req to one of the user's notes.
func (s *NoteService) UpdateNote(ctx context.Context, userID, id int64, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	n, err := s.GetNote(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		content, err := normalizeContent(*req.Content)
		if err != nil {
			return nil, err
		}
		n.Content = content
	}
	n.Touch()

	if err := s.store.UpdateNote(ctx, userID, n); err != nil {
		return nil, notFoundAs(err, msgNoteNotFound)
	}
	s.search.IndexNote(ctx, userID, n)
	return n, nil
}

// DeleteNote deletes one of the user's notes.
func (s *NoteService) DeleteNote(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteNote(ctx, userID, id); err != nil {
		return notFoundAs(err, msgNoteNotFound)
	}
	s.search.DeleteNotes(ctx, id)

	s.logger.Info("note deleted", "note_id", id, "user_id", userID)
	return nil
}

// normalizeContent parses note HTML and renders it back in canonical,
// sanitized form.
func normalizeContent(raw string) (string, error) {
	doc, err := richtext.Parse(raw)
	if err != nil {
		return "", domainerrors.Validation("content could not be parsed").WithCause(err)
	}
	if doc.IsEmpty() {
		return "", domainerrors.Validation("content must not be empty")
	}
	html := doc.HTML()
	if len(html) > MaxNoteContent {
		return "", domainerrors.Validationf("content must not exceed %d bytes", MaxNoteContent)
	}
	return html, nil
}
