package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createChapter(t *testing.T, ts *testServer, authHeader string, bookID int64, name string) ChapterResponse {
	t.Helper()
	resp := ts.api.Post(fmt.Sprintf("/api/books/%d/chapters", bookID), authHeader, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[ChapterResponse](t, resp)
}

func TestChapters_CRUD(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.register(t, "ada@example.com")
	book := createBook(t, ts, authHeader, "Trip")

	day1 := createChapter(t, ts, authHeader, book.ID, "Day 1")
	assert.Equal(t, book.ID, day1.BookID)
	assert.Equal(t, day1.CreatedAt.Format("01/02/06"), day1.Date)
	_, err := time.Parse("01/02/06", day1.Date)
	require.NoError(t, err)
	day2 := createChapter(t, ts, authHeader, book.ID, "Day 2")

	resp := ts.api.Get(fmt.Sprintf("/api/books/%d/chapters", book.ID), authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	chapters := decode[[]ChapterResponse](t, resp)
	require.Len(t, chapters, 2)
	assert.Equal(t, day1.ID, chapters[0].ID)
	assert.Equal(t, day2.ID, chapters[1].ID)

	path := fmt.Sprintf("/api/chapters/%d", day1.ID)
	resp = ts.api.Put(path, authHeader, map[string]any{"name": "Arrival"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Arrival", decode[ChapterResponse](t, resp).Name)

	resp = ts.api.Get(path, authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Arrival", decode[ChapterResponse](t, resp).Name)

	assert.Equal(t, http.StatusNoContent, ts.api.Delete(path, authHeader).Code)
	requireDetail(t, ts.api.Get(path, authHeader), http.StatusNotFound, "Chapter not found")
}

func TestChapters_UnknownBook(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.register(t, "ada@example.com")

	requireDetail(t, ts.api.Get("/api/books/999/chapters", authHeader), http.StatusNotFound, "Book not found")
	requireDetail(t, ts.api.Post("/api/books/999/chapters", authHeader, map[string]any{"name": "x"}),
		http.StatusNotFound, "Book not found")
}

func TestChapters_DeletedWithBook(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.register(t, "ada@example.com")
	book := createBook(t, ts, authHeader, "Trip")
	chapter := createChapter(t, ts, authHeader, book.ID, "Day 1")

	require.Equal(t, http.StatusNoContent, ts.api.Delete(fmt.Sprintf("/api/books/%d", book.ID), authHeader).Code)

	requireDetail(t, ts.api.Get(fmt.Sprintf("/api/chapters/%d", chapter.ID), authHeader),
		http.StatusNotFound, "Chapter not found")
}

func TestChapters_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	ada := ts.register(t, "ada@example.com")
	bob := ts.register(t, "bob@example.com")
	book := createBook(t, ts, ada, "Trip")
	chapter := createChapter(t, ts, ada, book.ID, "Day 1")

	requireDetail(t, ts.api.Get(fmt.Sprintf("/api/books/%d/chapters", book.ID), bob), http.StatusNotFound, "Book not found")
	requireDetail(t, ts.api.Get(fmt.Sprintf("/api/chapters/%d", chapter.ID), bob), http.StatusNotFound, "Chapter not found")
	requireDetail(t, ts.api.Delete(fmt.Sprintf("/api/chapters/%d", chapter.ID), bob), http.StatusNotFound, "Chapter not found")
}
