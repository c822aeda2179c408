package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_CRUD(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.register(t, "ada@example.com")

	resp := ts.api.Post("/api/tags", authHeader, map[string]any{"name": "urgent"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	urgent := decode[TagResponse](t, resp)
	assert.Equal(t, "bg-blue-500", urgent.Color)

	resp = ts.api.Post("/api/tags", authHeader, map[string]any{"name": "later", "color": "bg-gray-300"})
	require.Equal(t, http.StatusCreated, resp.Code)
	later := decode[TagResponse](t, resp)
	assert.Equal(t, "bg-gray-300", later.Color)

	resp = ts.api.Get("/api/tags", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]TagResponse](t, resp)
	require.Len(t, tags, 2)
	assert.Equal(t, urgent, tags[0])
	assert.Equal(t, later, tags[1])

	resp = ts.api.Put(fmt.Sprintf("/api/tags/%d", urgent.ID), authHeader, map[string]any{"color": "bg-red-500"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[TagResponse](t, resp)
	assert.Equal(t, "urgent", updated.Name)
	assert.Equal(t, "bg-red-500", updated.Color)

	assert.Equal(t, http.StatusNoContent, ts.api.Delete(fmt.Sprintf("/api/tags/%d", urgent.ID), authHeader).Code)
	requireDetail(t, ts.api.Delete(fmt.Sprintf("/api/tags/%d", urgent.ID), authHeader), http.StatusNotFound, "Tag not found")
}

func TestTags_Validation(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.register(t, "ada@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty name", map[string]any{"name": ""}},
		{"long name", map[string]any{"name": strings.Repeat("x", 101)}},
		{"long color", map[string]any{"name": "ok", "color": strings.Repeat("c", 51)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/tags", authHeader, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
		})
	}
}

func TestTags_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.register(t, "ada@example.com")
	bob := ts.register(t, "bob@example.com")

	resp := ts.api.Post("/api/tags", ada, map[string]any{"name": "urgent"})
	require.Equal(t, http.StatusCreated, resp.Code)
	tag := decode[TagResponse](t, resp)

	resp = ts.api.Get("/api/tags", bob)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[[]TagResponse](t, resp))

	requireDetail(t, ts.api.Put(fmt.Sprintf("/api/tags/%d", tag.ID), bob, map[string]any{"name": "x"}),
		http.StatusNotFound, "Tag not found")
}
