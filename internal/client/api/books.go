package api

import (
	"context"
	"net/http"
)

type nameBody struct {
	Name string `json:"name"`
}

// ListBooks returns the user's books in server order.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/api/books", nil, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook returns one book.
func (c *Client) GetBook(ctx context.Context, id ID) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, idPath("/api/books/%s", id), nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook creates a book.
func (c *Client) CreateBook(ctx context.Context, name string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/api/books", nil, nameBody{name}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook renames a book.
func (c *Client) UpdateBook(ctx context.Context, id ID, name string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPut, idPath("/api/books/%s", id), nil, nameBody{name}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook deletes a book with its chapters and notes.
func (c *Client) DeleteBook(ctx context.Context, id ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/books/%s", id), nil, nil, nil)
}
