package api

import (
	"context"
	"net/http"
	"net/url"
)

type contentBody struct {
	Content string `json:"content"`
}

// ListNotes returns the notes of a chapter, newest first.
func (c *Client) ListNotes(ctx context.Context, chapterID ID) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, idPath("/api/chapters/%s/notes", chapterID), nil, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote returns one note.
func (c *Client) GetNote(ctx context.Context, id ID) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, idPath("/api/notes/%s", id), nil, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote adds a note to a chapter. content is HTML; the server returns
// it in canonical form.
func (c *Client) CreateNote(ctx context.Context, chapterID ID, content string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPost, idPath("/api/chapters/%s/notes", chapterID), nil, contentBody{content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces a note's content.
func (c *Client) UpdateNote(ctx context.Context, id ID, content string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPut, idPath("/api/notes/%s", id), nil, contentBody{content}, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote deletes a note.
func (c *Client) DeleteNote(ctx context.Context, id ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/notes/%s", id), nil, nil, nil)
}

// SearchNotes runs a full-text search over all of the user's notes.
func (c *Client) SearchNotes(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/notes/search", url.Values{"q": {query}}, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
