package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/auth"
	"github.com/notekeeperapp/notekeeper/internal/search"
	"github.com/notekeeperapp/notekeeper/internal/service"
	"github.com/notekeeperapp/notekeeper/internal/store/sqlstore"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

type testOptions struct {
	withIndex     bool
	authRateLimit int
}

// setupTestServer creates a server over a temporary SQLite database with the
// full-text index enabled.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWith(t, testOptions{withIndex: true})
}

func setupTestServerWith(t *testing.T, opts testOptions) *testServer {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	st, err := sqlstore.OpenSQLite(ctx, dir+"/test.db", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var index *search.NoteIndex
	if opts.withIndex {
		index, err = search.Open(search.Options{DataPath: dir})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })
	}

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	searchSvc := service.NewSearchService(index, st, nil)
	services := &Services{
		Auth:    service.NewAuthService(st, tokens, service.AuthOptions{ExposeResetToken: true}, nil),
		Book:    service.NewBookService(st, searchSvc, nil),
		Chapter: service.NewChapterService(st, searchSvc, nil),
		Note:    service.NewNoteService(st, searchSvc, nil),
		Tag:     service.NewTagService(st, nil),
		Search:  searchSvc,
	}

	s := NewServer(st, services, Options{
		Version:       "test",
		CORSOrigins:   []string{"http://localhost:5173"},
		AuthRateLimit: opts.authRateLimit,
		AuthRateBurst: opts.authRateLimit,
	}, nil)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// register creates an account and returns an Authorization header value.
func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/auth/register", map[string]any{
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/auth/login", map[string]any{
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var token TokenResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &token))
	return "Authorization: Bearer " + token.AccessToken
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func requireDetail(t *testing.T, resp *httptest.ResponseRecorder, status int, detail string) {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	body := decode[map[string]any](t, resp)
	assert.Equal(t, detail, body["detail"])
}

func TestRoot(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[RootResponse](t, resp)
	assert.Equal(t, AppName, body.Name)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, "/docs", body.Docs)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/nothing-here")
	requireDetail(t, resp, http.StatusNotFound, "Not Found")
}

func TestMetrics(t *testing.T) {
	ts := setupTestServer(t)

	require.Equal(t, http.StatusOK, ts.api.Get("/health").Code)

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "notekeeper_http_requests_total")
	assert.Contains(t, body, `route="/health"`)
	assert.Contains(t, body, "notekeeper_http_request_duration_seconds")
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServerWith(t, testOptions{authRateLimit: 3})

	for i := range 3 {
		resp := ts.api.Post("/api/auth/login", map[string]any{
			"email":    fmt.Sprintf("nobody%d@example.com", i),
			"password": "x",
		})
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/auth/login", map[string]any{"email": "a@example.com", "password": "x"})
	requireDetail(t, resp, http.StatusTooManyRequests, MsgTooManyRequests)

	// Only /api/auth/* is throttled.
	assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
}

func TestAuthRateLimit_KeyedByClientIP(t *testing.T) {
	ts := setupTestServerWith(t, testOptions{authRateLimit: 1})

	login := func(ip string) int {
		return ts.api.Post("/api/auth/login", "X-Forwarded-For: "+ip,
			map[string]any{"email": "a@example.com", "password": "x"}).Code
	}

	assert.Equal(t, http.StatusUnauthorized, login("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, login("10.0.0.1"))
	assert.Equal(t, http.StatusUnauthorized, login("10.0.0.2"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "127.0.0.1:9", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "127.0.0.1:9", "5.6.7.8"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"ipv6 remote addr", nil, "[::1]:1234", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestPanicRecovery(t *testing.T) {
	ts := setupTestServer(t)
	ts.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"detail"`))
}
