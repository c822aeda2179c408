package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/workspace"
)

type fakeWorkspace struct {
	mu      sync.Mutex
	state   workspace.State
	updates chan workspace.State
	calls   []string
	content string
	err     error
}

func newFakeWorkspace(st workspace.State) *fakeWorkspace {
	return &fakeWorkspace{state: st, updates: make(chan workspace.State, 1)}
}

func (f *fakeWorkspace) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeWorkspace) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeWorkspace) State() workspace.State { return f.state }
func (f *fakeWorkspace) Subscribe() (<-chan workspace.State, func()) {
	return f.updates, func() {}
}
func (f *fakeWorkspace) Refresh(context.Context) error { return f.record("refresh") }
func (f *fakeWorkspace) SelectBook(_ context.Context, id api.ID) error {
	return f.record("select-book " + string(id))
}
func (f *fakeWorkspace) DeselectBook(context.Context) error { return f.record("deselect-book") }
func (f *fakeWorkspace) SelectChapter(_ context.Context, id api.ID) error {
	return f.record("select-chapter " + string(id))
}
func (f *fakeWorkspace) Search(q string) { _ = f.record("search " + q) }
func (f *fakeWorkspace) OpenResult(_ context.Context, r api.SearchResult) error {
	return f.record("open " + string(r.ID))
}
func (f *fakeWorkspace) CreateBook(_ context.Context, name string) (*api.Book, error) {
	return nil, f.record("create-book " + name)
}
func (f *fakeWorkspace) RenameBook(_ context.Context, id api.ID, name string) (*api.Book, error) {
	return nil, f.record("rename-book " + string(id) + " " + name)
}
func (f *fakeWorkspace) DeleteBook(_ context.Context, id api.ID) error {
	return f.record("delete-book " + string(id))
}
func (f *fakeWorkspace) CreateChapter(_ context.Context, name string) (*api.Chapter, error) {
	return nil, f.record("create-chapter " + name)
}
func (f *fakeWorkspace) RenameChapter(_ context.Context, id api.ID, name string) (*api.Chapter, error) {
	return nil, f.record("rename-chapter " + string(id) + " " + name)
}
func (f *fakeWorkspace) DeleteChapter(_ context.Context, id api.ID) error {
	return f.record("delete-chapter " + string(id))
}
func (f *fakeWorkspace) CreateNote(_ context.Context, content string) (*api.Note, error) {
	f.mu.Lock()
	f.content = content
	f.mu.Unlock()
	return nil, f.record("create-note")
}
func (f *fakeWorkspace) UpdateNote(_ context.Context, id api.ID, content string) (*api.Note, error) {
	f.mu.Lock()
	f.content = content
	f.mu.Unlock()
	return nil, f.record("update-note " + string(id))
}
func (f *fakeWorkspace) DeleteNote(_ context.Context, id api.ID) error {
	return f.record("delete-note " + string(id))
}
func (f *fakeWorkspace) CreateTag(_ context.Context, name, color string) (*api.Tag, error) {
	return nil, f.record("create-tag " + name + " " + color)
}
func (f *fakeWorkspace) DeleteTag(_ context.Context, id api.ID) error {
	return f.record("delete-tag " + string(id))
}

func loadedState() workspace.State {
	return workspace.State{
		Authenticated: true,
		Books: []api.Book{
			{ID: "1", Name: "Trip", NoteCount: 1},
			{ID: "2", Name: "Work"},
		},
		Chapters:          []api.Chapter{{ID: "10", Name: "Day 1", BookID: "1", Date: "2024-05-01"}},
		Notes:             []api.Note{{ID: "100", Content: "<p>Packed <strong>bags</strong></p>", ChapterID: "10"}},
		Tags:              []api.Tag{{ID: "7", Name: "urgent", Color: "bg-red-500"}},
		SelectedBookID:    "1",
		SelectedChapterID: "10",
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys and runs any operation commands they return.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyPress(k))
		runOps(m, cmd)
	}
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		runOps(m, cmd)
	}
}

// runOps executes cmd and feeds back operation results. Cursor blink
// ticks take longer than the wait and are dropped.
func runOps(m *Model, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if op, ok := msg.(opDoneMsg); ok {
			m.Update(op)
		}
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func TestBrowseRendersPanes(t *testing.T) {
	m := New(Options{Workspace: newFakeWorkspace(loadedState()), UserLabel: "ada@example.com"})

	view := m.View()
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "Trip / Day 1")
	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "**bags**")
}

func TestEmptyPanesShowHints(t *testing.T) {
	m := New(Options{Workspace: newFakeWorkspace(workspace.State{Authenticated: true})})

	view := m.View()
	assert.Contains(t, view, "No books yet")
	assert.Contains(t, view, "Select a book")
	assert.Contains(t, view, "Select a chapter")
}

func TestSelectBookMovesFocus(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "down", "enter")

	assert.Equal(t, []string{"select-book 2"}, ws.Calls())
	assert.Equal(t, paneChapters, m.focus)
}

func TestSelectChapter(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "enter")

	assert.Equal(t, []string{"select-chapter 10"}, ws.Calls())
	assert.Equal(t, paneNotes, m.focus)
}

func TestEscDeselectsBook(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "esc")

	assert.Equal(t, []string{"deselect-book"}, ws.Calls())
}

func TestCreateBookPrompt(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "n")
	require.Equal(t, modePrompt, m.mode)
	assert.Contains(t, m.View(), "Create New Book")

	typeText(t, m, "  Novel ")
	press(t, m, "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"create-book Novel"}, ws.Calls())
}

func TestBlankPromptIsNotSubmitted(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "n")
	typeText(t, m, "   ")
	press(t, m, "enter")

	assert.Equal(t, modePrompt, m.mode)
	assert.Empty(t, ws.Calls())

	press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestRenameChapter(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "r")
	assert.Equal(t, "Day 1", m.input.Value())
	typeText(t, m, "!")
	press(t, m, "enter")

	assert.Equal(t, []string{"rename-chapter 10 Day 1!"}, ws.Calls())
}

func TestNewChapterNeedsBook(t *testing.T) {
	ws := newFakeWorkspace(workspace.State{Authenticated: true, Books: []api.Book{{ID: "1", Name: "Trip"}}})
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "n")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Select a book first", m.status)
	assert.True(t, m.statusErr)
}

func TestWriteNoteStoresHTML(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "tab", "n")
	require.Equal(t, modeEditor, m.mode)
	typeText(t, m, "Buy <milk>")
	press(t, m, "ctrl+s")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, []string{"create-note"}, ws.Calls())
	assert.Equal(t, "<p>Buy &lt;milk&gt;</p>", ws.content)
}

func TestEmptyNoteIsRejected(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "tab", "n", "ctrl+s")

	assert.Equal(t, modeEditor, m.mode)
	assert.Empty(t, ws.Calls())
}

func TestEditNotePrefillsPlainText(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "tab", "tab", "e")

	require.Equal(t, modeEditor, m.mode)
	assert.Equal(t, "Packed bags", m.editor.Value())

	press(t, m, "ctrl+s")
	assert.Equal(t, []string{"update-note 100"}, ws.Calls())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "d")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), `Delete book "Trip"`)
	press(t, m, "x")
	assert.Empty(t, ws.Calls())
	assert.Equal(t, "Cancelled", m.status)

	press(t, m, "d", "y")
	assert.Equal(t, []string{"delete-book 1"}, ws.Calls())
}

func TestSearchForwardsQueriesAndOpensResult(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	typeText(t, m, "ba")

	st := loadedState()
	st.Search = workspace.SearchState{
		Query: "ba",
		Results: []api.SearchResult{{
			Note:        api.Note{ID: "100", Content: "<p>Packed bags</p>", ChapterID: "10"},
			ChapterName: "Day 1",
			BookID:      "1",
			BookName:    "Trip",
		}},
	}
	m.Update(stateMsg{state: st, ok: true})
	assert.Contains(t, m.View(), "Trip / Day 1")
	assert.Contains(t, m.View(), "Packed bags")

	press(t, m, "enter")

	assert.Equal(t, []string{"search ", "search b", "search ba", "open 100"}, ws.Calls())
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, paneNotes, m.focus)
}

func TestSearchEscClears(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "/", "x", "esc")

	assert.Equal(t, []string{"search ", "search x", "search "}, ws.Calls())
	assert.Equal(t, modeBrowse, m.mode)
}

func TestTagsDialog(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	m := New(Options{Workspace: ws})

	press(t, m, "t")
	require.Equal(t, modeTags, m.mode)
	assert.Contains(t, m.View(), "urgent")

	press(t, m, "n")
	typeText(t, m, "later bg-green-500")
	press(t, m, "enter")
	assert.Equal(t, modeTags, m.mode)

	press(t, m, "d", "esc")
	assert.Equal(t, []string{"create-tag later bg-green-500", "delete-tag 7"}, ws.Calls())
	assert.Equal(t, modeBrowse, m.mode)
}

func TestParseTagInput(t *testing.T) {
	tests := []struct {
		in, name, color string
	}{
		{"urgent", "urgent", ""},
		{"to do bg-red-500", "to do", "bg-red-500"},
		{"bg-red-500", "bg-red-500", ""},
		{"  spaced   out  ", "spaced out", ""},
	}
	for _, tt := range tests {
		name, color := parseTagInput(tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.color, color, tt.in)
	}
}

func TestOperationErrorsAreShown(t *testing.T) {
	ws := newFakeWorkspace(loadedState())
	ws.err = &api.Error{Status: 400, Message: "Book not found"}
	m := New(Options{Workspace: ws})

	press(t, m, "R")

	assert.Equal(t, "Book not found", m.status)
	assert.True(t, m.statusErr)

	m.Update(opDoneMsg{err: api.ErrUnauthorized})
	assert.Equal(t, "Session expired, please log in again", m.status)
}

func TestStateErrorSurfaces(t *testing.T) {
	m := New(Options{Workspace: newFakeWorkspace(loadedState())})

	st := loadedState()
	st.LastError = "Failed to load books: boom"
	_, cmd := m.Update(stateMsg{state: st, ok: true})

	assert.NotNil(t, cmd)
	assert.Equal(t, "Failed to load books: boom", m.status)
	assert.Contains(t, m.View(), "Failed to load books")
}

func TestStateUpdateRepositionsCursor(t *testing.T) {
	m := New(Options{Workspace: newFakeWorkspace(loadedState())})

	st := loadedState()
	st.SelectedBookID = "2"
	m.Update(stateMsg{state: st, ok: true})

	assert.Equal(t, 1, m.cursor[paneBooks])
}

func TestWaitForStateDeliversUpdates(t *testing.T) {
	ws := newFakeWorkspace(workspace.State{})
	m := New(Options{Workspace: ws})

	ws.updates <- loadedState()
	msg := m.Init()()

	sm, ok := msg.(stateMsg)
	require.True(t, ok)
	assert.True(t, sm.ok)
	assert.Len(t, sm.state.Books, 2)

	close(ws.updates)
	assert.Equal(t, stateMsg{}, m.waitForState()())
}

func TestLogoutQuits(t *testing.T) {
	loggedOut := false
	m := New(Options{Workspace: newFakeWorkspace(loadedState()), Logout: func() { loggedOut = true }})

	_, cmd := m.Update(keyPress("L"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, loggedOut)
	assert.True(t, m.LoggedOut())
}

func TestQuitKey(t *testing.T) {
	m := New(Options{Workspace: newFakeWorkspace(loadedState())})

	_, cmd := m.Update(keyPress("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.LoggedOut())
	assert.True(t, strings.Contains(m.View(), "NoteKeeper"))
}
