package service

import (
	"context"
	"log/slog"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// TagService manages a user's tags. Tags are labels with a color; nothing
// links them to notes.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: orDiscard(logger),
	}
}

// CreateTagRequest holds the fields of a new tag. An empty color becomes
// domain.DefaultTagColor.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=50"`
}

// UpdateTagRequest holds the fields that can change on a tag.
type UpdateTagRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,min=1,max=50"`
}

// ListTags returns the user's tags in creation order.
func (s *TagService) ListTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, userID)
}

// GetTag returns one of the user's tags.
func (s *TagService) GetTag(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	t, err := s.store.GetTag(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, msgTagNotFound)
	}
	return t, nil
}

// CreateTag creates a tag for the user.
func (s *TagService) CreateTag(ctx context.Context, userID int64, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = domain.DefaultTagColor
	}

	ts := now()
	t := &domain.Tag{
		UserID:    userID,
		Name:      req.Name,
		Color:     color,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "tag_id", t.ID, "user_id", userID)
	return t, nil
}

// UpdateTag applies req to one of the user's tags.
func (s *TagService) UpdateTag(ctx context.Context, userID, id int64, req UpdateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.GetTag(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Color != nil {
		t.Color = *req.Color
	}
	t.Touch()

	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, notFoundAs(err, msgTagNotFound)
	}
	return t, nil
}

// DeleteTag deletes one of the user's tags.
func (s *TagService) DeleteTag(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTag(ctx, userID, id); err != nil {
		return notFoundAs(err, msgTagNotFound)
	}
	return nil
}
