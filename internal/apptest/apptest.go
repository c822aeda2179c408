// Package apptest starts a complete NoteKeeper server over a temporary SQLite
// database for tests of the client packages.
package apptest

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/api"
	"github.com/notekeeperapp/notekeeper/internal/auth"
	"github.com/notekeeperapp/notekeeper/internal/search"
	"github.com/notekeeperapp/notekeeper/internal/service"
	"github.com/notekeeperapp/notekeeper/internal/store/sqlstore"
)

// Server is a running test server.
type Server struct {
	*httptest.Server
	Store *sqlstore.Store
}

// NewServer starts a server with the search index enabled and development
// reset tokens exposed. Everything is torn down through t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	dir := t.TempDir()

	st, err := sqlstore.OpenSQLite(context.Background(), filepath.Join(dir, "notekeeper.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.Open(search.Options{DataPath: dir})
	if err != nil {
		t.Fatalf("open search index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	searchSvc := service.NewSearchService(index, st, nil)
	services := &api.Services{
		Auth:    service.NewAuthService(st, tokens, service.AuthOptions{ExposeResetToken: true}, nil),
		Book:    service.NewBookService(st, searchSvc, nil),
		Chapter: service.NewChapterService(st, searchSvc, nil),
		Note:    service.NewNoteService(st, searchSvc, nil),
		Tag:     service.NewTagService(st, nil),
		Search:  searchSvc,
	}

	handler := api.NewServer(st, services, api.Options{Version: "test"}, nil)
	t.Cleanup(handler.Close)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Server{Server: srv, Store: st}
}
