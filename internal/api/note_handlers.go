package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/chapters/{id}/notes",
		Summary:     "List notes",
		Description: "Returns the notes of a chapter, newest first",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/chapters/{id}/notes",
		Summary:       "Create note",
		Description:   "Creates a note in a chapter. Content is normalized to canonical HTML.",
		Tags:          []string{"Notes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/notes/search",
		Summary:     "Search notes",
		Description: "Case and accent insensitive search over the plain text of all the user's notes. Every term must match.",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/notes/{id}",
		Summary:     "Get note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPut,
		Path:        "/api/notes/{id}",
		Summary:     "Update note",
		Description: "Replaces the content of a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteNote",
		Method:        http.MethodDelete,
		Path:          "/api/notes/{id}",
		Summary:       "Delete note",
		Tags:          []string{"Notes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID        int64     `json:"id" doc:"Note ID"`
	Content   string    `json:"content" doc:"Canonical HTML content"`
	ChapterID int64     `json:"chapter_id" doc:"Owning chapter ID"`
	Date      string    `json:"date" doc:"Creation day as Mon DD, YYYY"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// SearchResultResponse is a note with the names of its chapter and book.
type SearchResultResponse struct {
	NoteResponse
	ChapterName string `json:"chapter_name" doc:"Chapter name"`
	BookID      int64  `json:"book_id" doc:"Book ID"`
	BookName    string `json:"book_name" doc:"Book name"`
}

// ListNotesOutput wraps the note list for Huma.
type ListNotesOutput struct {
	Body []NoteResponse
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// SearchNotesOutput wraps search results for Huma.
type SearchNotesOutput struct {
	Body []SearchResultResponse
}

// ChapterNotesInput addresses the notes of a chapter.
type ChapterNotesInput struct {
	Authorization string `header:"Authorization"`
	ChapterID     int64  `path:"id" doc:"Chapter ID"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Content string `json:"content" doc:"HTML content"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Authorization string `header:"Authorization"`
	ChapterID     int64  `path:"id" doc:"Chapter ID"`
	Body          CreateNoteRequest
}

// SearchNotesInput contains the search query.
type SearchNotesInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search terms"`
}

// NoteInput addresses a single note.
type NoteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content *string `json:"content,omitempty" doc:"New HTML content"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Note ID"`
	Body          UpdateNoteRequest
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ChapterNotesInput) (*ListNotesOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.ListNotes(ctx, user.ID, input.ChapterID)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, n := range notes {
		resp[i] = mapNote(n)
	}
	return &ListNotesOutput{Body: resp}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateNote(ctx, user.ID, input.ChapterID, service.CreateNoteRequest{Content: input.Body.Content})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: mapNote(note)}, nil
}

func (s *Server) handleSearchNotes(ctx context.Context, input *SearchNotesInput) (*SearchNotesOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	results, err := s.services.Search.SearchNotes(ctx, user.ID, input.Query)
	if err != nil {
		return nil, err
	}

	resp := make([]SearchResultResponse, len(results))
	for i, r := range results {
		resp[i] = SearchResultResponse{
			NoteResponse: mapNote(&r.Note),
			ChapterName:  r.ChapterName,
			BookID:       r.BookID,
			BookName:     r.BookName,
		}
	}
	return &SearchNotesOutput{Body: resp}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteInput) (*NoteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.GetNote(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: mapNote(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.UpdateNote(ctx, user.ID, input.ID, service.UpdateNoteRequest{Content: input.Body.Content})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: mapNote(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteInput) (*struct{}, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.DeleteNote(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func mapNote(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Content:   n.Content,
		ChapterID: n.ChapterID,
		Date:      n.Date(),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
