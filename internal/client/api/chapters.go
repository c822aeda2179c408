package api

import (
	"context"
	"net/http"
)

// ListChapters returns the chapters of a book.
func (c *Client) ListChapters(ctx context.Context, bookID ID) ([]Chapter, error) {
	var chapters []Chapter
	if err := c.do(ctx, http.MethodGet, idPath("/api/books/%s/chapters", bookID), nil, nil, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// GetChapter returns one chapter.
func (c *Client) GetChapter(ctx context.Context, id ID) (*Chapter, error) {
	var chapter Chapter
	if err := c.do(ctx, http.MethodGet, idPath("/api/chapters/%s", id), nil, nil, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// CreateChapter adds a chapter to a book.
func (c *Client) CreateChapter(ctx context.Context, bookID ID, name string) (*Chapter, error) {
	var chapter Chapter
	if err := c.do(ctx, http.MethodPost, idPath("/api/books/%s/chapters", bookID), nil, nameBody{name}, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// UpdateChapter renames a chapter.
func (c *Client) UpdateChapter(ctx context.Context, id ID, name string) (*Chapter, error) {
	var chapter Chapter
	if err := c.do(ctx, http.MethodPut, idPath("/api/chapters/%s", id), nil, nameBody{name}, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// DeleteChapter deletes a chapter and its notes.
func (c *Client) DeleteChapter(ctx context.Context, id ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/chapters/%s", id), nil, nil, nil)
}
