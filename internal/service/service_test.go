package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/auth"
	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/search"
	"github.com/notekeeperapp/notekeeper/internal/store/sqlstore"
)

type testEnv struct {
	store    *sqlstore.Store
	index    *search.NoteIndex
	tokens   *auth.TokenService
	auth     *AuthService
	search   *SearchService
	books    *BookService
	chapters *ChapterService
	notes    *NoteService
	tags     *TagService
}

// setupTest wires every service over a temporary SQLite database. With
// withIndex false, searches use the store fallback.
func setupTest(t *testing.T, withIndex bool) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlstore.OpenSQLite(context.Background(), dir+"/test.db", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var index *search.NoteIndex
	if withIndex {
		index, err = search.Open(search.Options{DataPath: dir})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })
	}

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	searchSvc := NewSearchService(index, st, nil)
	return &testEnv{
		store:    st,
		index:    index,
		tokens:   tokens,
		auth:     NewAuthService(st, tokens, AuthOptions{ExposeResetToken: true}, nil),
		search:   searchSvc,
		books:    NewBookService(st, searchSvc, nil),
		chapters: NewChapterService(st, searchSvc, nil),
		notes:    NewNoteService(st, searchSvc, nil),
		tags:     NewTagService(st, nil),
	}
}

func (e *testEnv) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterRequest{Email: email, Password: "secret"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) chapter(t *testing.T, userID int64) (*domain.Book, *domain.Chapter) {
	t.Helper()
	ctx := context.Background()
	b, err := e.books.CreateBook(ctx, userID, CreateBookRequest{Name: "Trip"})
	require.NoError(t, err)
	ch, err := e.chapters.CreateChapter(ctx, userID, b.ID, CreateChapterRequest{Name: "Day 1"})
	require.NoError(t, err)
	return b, ch
}

func requireCode(t *testing.T, err error, code domainerrors.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
	if msg != "" {
		assert.Equal(t, msg, domainErr.Message)
	}
}

func ptr[T any](v T) *T { return &v }
