package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/apptest"
	"github.com/notekeeperapp/notekeeper/internal/client/api"
)

func login(t *testing.T, c *api.Client, email string) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Register(ctx, email, "correct horse", nil)
	require.NoError(t, err)
	tok, err := c.Login(ctx, email, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	require.NoError(t, c.Tokens().SetToken(tok.AccessToken))
}

func TestClient_AgainstServer(t *testing.T) {
	srv := apptest.NewServer(t)
	c, err := api.New(nil, api.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	ctx := context.Background()

	login(t, c, "ada@example.com")

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.Nil(t, me.Name)

	book, err := c.CreateBook(ctx, "Trip")
	require.NoError(t, err)
	chapter, err := c.CreateChapter(ctx, book.ID, "Day 1")
	require.NoError(t, err)
	assert.Equal(t, book.ID, chapter.BookID)

	note, err := c.CreateNote(ctx, chapter.ID, "Packed bags")
	require.NoError(t, err)
	assert.Equal(t, "<p>Packed bags</p>", note.Content)

	results, err := c.SearchNotes(ctx, "packed")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, note.ID, results[0].ID)
	assert.Equal(t, "Trip", results[0].BookName)

	got, err := c.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NoteCount)

	require.NoError(t, c.DeleteNote(ctx, note.ID))
	_, err = c.GetNote(ctx, note.ID)
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
	assert.EqualError(t, err, "Note not found")

	tag, err := c.CreateTag(ctx, "urgent", "")
	require.NoError(t, err)
	assert.Equal(t, "bg-blue-500", tag.Color)
	tags, err := c.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Tag{*tag}, tags)
}

func TestClient_ServerErrors(t *testing.T) {
	srv := apptest.NewServer(t)
	c, err := api.New(nil, api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	ctx := context.Background()

	login(t, c, "ada@example.com")

	_, err = c.Register(ctx, "ada@example.com", "correct horse", nil)
	assert.EqualError(t, err, "Email already registered")

	_, err = c.CreateBook(ctx, "")
	assert.True(t, api.IsStatus(err, http.StatusUnprocessableEntity))

	require.NoError(t, c.Tokens().SetToken("garbage"))
	_, err = c.ListBooks(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	tok, _ := c.Tokens().Token()
	assert.Empty(t, tok)
}

func TestClient_PasswordReset(t *testing.T) {
	srv := apptest.NewServer(t)
	c, err := api.New(nil, api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	ctx := context.Background()

	_, err = c.Register(ctx, "ada@example.com", "correct horse", nil)
	require.NoError(t, err)

	resp, err := c.ForgotPassword(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, resp.ResetToken)

	msg, err := c.ResetPassword(ctx, *resp.ResetToken, "battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = c.Login(ctx, "ada@example.com", "battery staple")
	require.NoError(t, err)
	_, err = c.Login(ctx, "ada@example.com", "correct horse")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
