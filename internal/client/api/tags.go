package api

import (
	"context"
	"net/http"
)

// ListTags returns the user's tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag. An empty color takes the server default.
func (c *Client) CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	body := struct {
		Name  string `json:"name"`
		Color string `json:"color,omitempty"`
	}{name, color}

	var tag Tag
	if err := c.do(ctx, http.MethodPost, "/api/tags", nil, body, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpdateTag changes the fields set in update.
func (c *Client) UpdateTag(ctx context.Context, id ID, update TagUpdate) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodPut, idPath("/api/tags/%s", id), nil, update, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, id ID) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/tags/%s", id), nil, nil, nil)
}
