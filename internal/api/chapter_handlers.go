package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/service"
)

func (s *Server) registerChapterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listChapters",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/chapters",
		Summary:     "List chapters",
		Description: "Returns the chapters of a book in creation order",
		Tags:        []string{"Chapters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChapters)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createChapter",
		Method:        http.MethodPost,
		Path:          "/api/books/{id}/chapters",
		Summary:       "Create chapter",
		Description:   "Creates a chapter in a book",
		Tags:          []string{"Chapters"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChapter",
		Method:      http.MethodGet,
		Path:        "/api/chapters/{id}",
		Summary:     "Get chapter",
		Tags:        []string{"Chapters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateChapter",
		Method:      http.MethodPut,
		Path:        "/api/chapters/{id}",
		Summary:     "Update chapter",
		Description: "Renames a chapter",
		Tags:        []string{"Chapters"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateChapter)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteChapter",
		Method:        http.MethodDelete,
		Path:          "/api/chapters/{id}",
		Summary:       "Delete chapter",
		Description:   "Deletes a chapter with all its notes",
		Tags:          []string{"Chapters"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteChapter)
}

// === DTOs ===

// ChapterResponse contains chapter data in API responses.
type ChapterResponse struct {
	ID        int64     `json:"id" doc:"Chapter ID"`
	Name      string    `json:"name" doc:"Chapter name"`
	BookID    int64     `json:"book_id" doc:"Owning book ID"`
	Date      string    `json:"date" doc:"Creation day as MM/DD/YY"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// ListChaptersOutput wraps the chapter list for Huma.
type ListChaptersOutput struct {
	Body []ChapterResponse
}

// ChapterOutput wraps a single chapter for Huma.
type ChapterOutput struct {
	Body ChapterResponse
}

// BookChaptersInput addresses the chapters of a book.
type BookChaptersInput struct {
	Authorization string `header:"Authorization"`
	BookID        int64  `path:"id" doc:"Book ID"`
}

// CreateChapterRequest is the request body for creating a chapter.
type CreateChapterRequest struct {
	Name string `json:"name" doc:"Chapter name"`
}

// CreateChapterInput wraps the create chapter request for Huma.
type CreateChapterInput struct {
	Authorization string `header:"Authorization"`
	BookID        int64  `path:"id" doc:"Book ID"`
	Body          CreateChapterRequest
}

// ChapterInput addresses a single chapter.
type ChapterInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Chapter ID"`
}

// UpdateChapterRequest is the request body for updating a chapter.
type UpdateChapterRequest struct {
	Name *string `json:"name,omitempty" doc:"New chapter name"`
}

// UpdateChapterInput wraps the update chapter request for Huma.
type UpdateChapterInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Chapter ID"`
	Body          UpdateChapterRequest
}

// === Handlers ===

func (s *Server) handleListChapters(ctx context.Context, input *BookChaptersInput) (*ListChaptersOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	chapters, err := s.services.Chapter.ListChapters(ctx, user.ID, input.BookID)
	if err != nil {
		return nil, err
	}

	resp := make([]ChapterResponse, len(chapters))
	for i, c := range chapters {
		resp[i] = mapChapter(c)
	}
	return &ListChaptersOutput{Body: resp}, nil
}

func (s *Server) handleCreateChapter(ctx context.Context, input *CreateChapterInput) (*ChapterOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	chapter, err := s.services.Chapter.CreateChapter(ctx, user.ID, input.BookID, service.CreateChapterRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: mapChapter(chapter)}, nil
}

func (s *Server) handleGetChapter(ctx context.Context, input *ChapterInput) (*ChapterOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	chapter, err := s.services.Chapter.GetChapter(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: mapChapter(chapter)}, nil
}

func (s *Server) handleUpdateChapter(ctx context.Context, input *UpdateChapterInput) (*ChapterOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	chapter, err := s.services.Chapter.UpdateChapter(ctx, user.ID, input.ID, service.UpdateChapterRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: mapChapter(chapter)}, nil
}

func (s *Server) handleDeleteChapter(ctx context.Context, input *ChapterInput) (*struct{}, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Chapter.DeleteChapter(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func mapChapter(c *domain.Chapter) ChapterResponse {
	return ChapterResponse{
		ID:        c.ID,
		Name:      c.Name,
		BookID:    c.BookID,
		Date:      c.Date(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
