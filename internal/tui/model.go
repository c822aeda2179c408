// Package tui is the three-pane terminal interface: books, chapters and the
// notes of the selected chapter.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/workspace"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

// Workspace is the state store the interface drives.
type Workspace interface {
	State() workspace.State
	Subscribe() (<-chan workspace.State, func())
	Refresh(ctx context.Context) error

	SelectBook(ctx context.Context, id api.ID) error
	DeselectBook(ctx context.Context) error
	SelectChapter(ctx context.Context, id api.ID) error
	Search(query string)
	OpenResult(ctx context.Context, r api.SearchResult) error

	CreateBook(ctx context.Context, name string) (*api.Book, error)
	RenameBook(ctx context.Context, id api.ID, name string) (*api.Book, error)
	DeleteBook(ctx context.Context, id api.ID) error
	CreateChapter(ctx context.Context, name string) (*api.Chapter, error)
	RenameChapter(ctx context.Context, id api.ID, name string) (*api.Chapter, error)
	DeleteChapter(ctx context.Context, id api.ID) error
	CreateNote(ctx context.Context, content string) (*api.Note, error)
	UpdateNote(ctx context.Context, id api.ID, content string) (*api.Note, error)
	DeleteNote(ctx context.Context, id api.ID) error
	CreateTag(ctx context.Context, name, color string) (*api.Tag, error)
	DeleteTag(ctx context.Context, id api.ID) error
}

// Options configures the model.
type Options struct {
	Workspace Workspace
	// Logout ends the session. The program quits after calling it.
	Logout func()
	// UserLabel is shown in the header.
	UserLabel string
	Logger    *slog.Logger
}

type pane int

const (
	paneBooks pane = iota
	paneChapters
	paneNotes
)

type mode int

const (
	modeBrowse mode = iota
	modePrompt
	modeEditor
	modeConfirm
	modeSearch
	modeTags
)

// promptKind says what a submitted prompt does.
type promptKind int

const (
	promptNewBook promptKind = iota
	promptRenameBook
	promptNewChapter
	promptRenameChapter
	promptNewTag
)

type (
	stateMsg struct {
		state workspace.State
		ok    bool
	}
	opDoneMsg struct{ err error }
)

// Model is the root tea.Model.
type Model struct {
	ws     Workspace
	logout func()
	user   string
	logger *slog.Logger
	ctx    context.Context

	updates     <-chan workspace.State
	unsubscribe func()

	state  workspace.State
	focus  pane
	mode   mode
	cursor [3]int

	keys keyMap
	help help.Model

	input     textinput.Model
	prompt    promptKind
	promptID  api.ID
	editor    textarea.Model
	editingID api.ID
	confirm   string
	onConfirm func() tea.Cmd
	searchIn  textinput.Model
	resultIdx int
	tagCursor int
	status    string
	statusErr bool
	loggedOut bool
	width     int
	height    int
}

// New creates the model and subscribes to the workspace.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	updates, unsubscribe := opts.Workspace.Subscribe()

	input := textinput.New()
	input.CharLimit = 255

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.Prompt = "/ "

	editor := textarea.New()
	editor.Placeholder = "Write your note..."
	editor.ShowLineNumbers = false

	m := &Model{
		ws:          opts.Workspace,
		logout:      opts.Logout,
		user:        opts.UserLabel,
		logger:      opts.Logger,
		ctx:         context.Background(),
		updates:     updates,
		unsubscribe: unsubscribe,
		keys:        defaultKeys(),
		help:        help.New(),
		input:       input,
		editor:      editor,
		searchIn:    search,
		width:       120,
		height:      32,
	}
	m.applyState(opts.Workspace.State())
	return m
}

// LoggedOut reports whether the user quit by logging out.
func (m *Model) LoggedOut() bool {
	return m.loggedOut
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForState()
}

func (m *Model) waitForState() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		st, ok := <-ch
		return stateMsg{state: st, ok: ok}
	}
}

// run executes op off the update loop and reports its error.
func (m *Model) run(op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

func (m *Model) quit() tea.Cmd {
	m.unsubscribe()
	return tea.Quit
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(20, msg.Width-10))
		m.editor.SetHeight(max(5, msg.Height/2))
		return m, nil

	case stateMsg:
		if !msg.ok {
			return m, nil
		}
		m.applyState(msg.state)
		return m, m.waitForState()

	case opDoneMsg:
		if msg.err != nil {
			m.logger.Debug("tui operation failed", "error", msg.err)
			m.setError(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeEditor:
			return m.updateEditor(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeTags:
			return m.updateTags(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m *Model) applyState(st workspace.State) {
	prev := m.state
	m.state = st
	if st.SelectedBookID != prev.SelectedBookID || len(st.Books) != len(prev.Books) {
		m.cursor[paneBooks] = indexOrZero(st.Books, st.SelectedBookID, func(b api.Book) api.ID { return b.ID })
	}
	if st.SelectedChapterID != prev.SelectedChapterID || len(st.Chapters) != len(prev.Chapters) {
		m.cursor[paneChapters] = indexOrZero(st.Chapters, st.SelectedChapterID, func(c api.Chapter) api.ID { return c.ID })
	}
	m.cursor[paneNotes] = clamp(m.cursor[paneNotes], len(st.Notes))
	m.tagCursor = clamp(m.tagCursor, len(st.Tags))
	m.resultIdx = clamp(m.resultIdx, len(st.Search.Results))
	if st.LastError != "" && st.LastError != prev.LastError {
		m.status, m.statusErr = st.LastError, true
	}
}

func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, workspace.ErrNoBookSelected):
		m.status = "Select a book first"
	case errors.Is(err, workspace.ErrNoChapterSelected):
		m.status = "Select a chapter first"
	case errors.Is(err, api.ErrUnauthorized):
		m.status = "Session expired, please log in again"
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			m.status = apiErr.Message
		} else {
			m.status = err.Error()
		}
	}
	m.statusErr = true
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.state
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.NextPane):
		m.focus = (m.focus + 1) % 3
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = (m.focus + 2) % 3
	case key.Matches(msg, m.keys.Up):
		m.cursor[m.focus] = clamp(m.cursor[m.focus]-1, m.paneLen(m.focus))
	case key.Matches(msg, m.keys.Down):
		m.cursor[m.focus] = clamp(m.cursor[m.focus]+1, m.paneLen(m.focus))
	case key.Matches(msg, m.keys.Refresh):
		m.setStatus("Refreshing...")
		return m, m.run(m.ws.Refresh)
	case key.Matches(msg, m.keys.Logout):
		if m.logout != nil {
			m.logout()
		}
		m.loggedOut = true
		return m, m.quit()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchIn.SetValue("")
		m.resultIdx = 0
		m.ws.Search("")
		return m, m.searchIn.Focus()
	case key.Matches(msg, m.keys.Tags):
		m.mode = modeTags
	case key.Matches(msg, m.keys.Back):
		if m.focus == paneBooks && st.SelectedBookID != "" {
			return m, m.run(m.ws.DeselectBook)
		}
		m.focus = paneBooks
	case key.Matches(msg, m.keys.Select):
		return m, m.selectUnderCursor()
	case key.Matches(msg, m.keys.New):
		return m.startNew()
	case key.Matches(msg, m.keys.Rename):
		return m.startRename()
	case key.Matches(msg, m.keys.Edit):
		if note, ok := m.noteUnderCursor(); ok {
			return m, m.openEditor(note.ID, richtext.PlainText(note.Content))
		}
	case key.Matches(msg, m.keys.Delete):
		m.startDelete()
	}
	return m, nil
}

func (m *Model) paneLen(p pane) int {
	switch p {
	case paneBooks:
		return len(m.state.Books)
	case paneChapters:
		return len(m.state.Chapters)
	default:
		return len(m.state.Notes)
	}
}

func (m *Model) selectUnderCursor() tea.Cmd {
	switch m.focus {
	case paneBooks:
		if i := m.cursor[paneBooks]; i < len(m.state.Books) {
			id := m.state.Books[i].ID
			m.focus = paneChapters
			return m.run(func(ctx context.Context) error { return m.ws.SelectBook(ctx, id) })
		}
	case paneChapters:
		if i := m.cursor[paneChapters]; i < len(m.state.Chapters) {
			id := m.state.Chapters[i].ID
			m.focus = paneNotes
			return m.run(func(ctx context.Context) error { return m.ws.SelectChapter(ctx, id) })
		}
	case paneNotes:
		if note, ok := m.noteUnderCursor(); ok {
			return m.openEditor(note.ID, richtext.PlainText(note.Content))
		}
	}
	return nil
}

func (m *Model) noteUnderCursor() (api.Note, bool) {
	i := m.cursor[paneNotes]
	if m.focus != paneNotes || i >= len(m.state.Notes) {
		return api.Note{}, false
	}
	return m.state.Notes[i], true
}

func (m *Model) startNew() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneBooks:
		return m, m.openPrompt(promptNewBook, "", "")
	case paneChapters:
		if m.state.SelectedBookID == "" {
			m.setError(workspace.ErrNoBookSelected)
			return m, nil
		}
		return m, m.openPrompt(promptNewChapter, "", "")
	default:
		if m.state.SelectedChapterID == "" {
			m.setError(workspace.ErrNoChapterSelected)
			return m, nil
		}
		return m, m.openEditor("", "")
	}
}

func (m *Model) startRename() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneBooks:
		if i := m.cursor[paneBooks]; i < len(m.state.Books) {
			b := m.state.Books[i]
			return m, m.openPrompt(promptRenameBook, b.ID, b.Name)
		}
	case paneChapters:
		if i := m.cursor[paneChapters]; i < len(m.state.Chapters) {
			c := m.state.Chapters[i]
			return m, m.openPrompt(promptRenameChapter, c.ID, c.Name)
		}
	}
	return m, nil
}

func (m *Model) startDelete() {
	switch m.focus {
	case paneBooks:
		if i := m.cursor[paneBooks]; i < len(m.state.Books) {
			b := m.state.Books[i]
			m.askConfirm(fmt.Sprintf("Delete book %q with all its chapters and notes?", b.Name), func() tea.Cmd {
				return m.run(func(ctx context.Context) error { return m.ws.DeleteBook(ctx, b.ID) })
			})
		}
	case paneChapters:
		if i := m.cursor[paneChapters]; i < len(m.state.Chapters) {
			c := m.state.Chapters[i]
			m.askConfirm(fmt.Sprintf("Delete chapter %q with all its notes?", c.Name), func() tea.Cmd {
				return m.run(func(ctx context.Context) error { return m.ws.DeleteChapter(ctx, c.ID) })
			})
		}
	case paneNotes:
		if note, ok := m.noteUnderCursor(); ok {
			m.askConfirm("Delete this note?", func() tea.Cmd {
				return m.run(func(ctx context.Context) error { return m.ws.DeleteNote(ctx, note.ID) })
			})
		}
	}
}

func (m *Model) askConfirm(question string, fn func() tea.Cmd) {
	m.mode = modeConfirm
	m.confirm = question
	m.onConfirm = fn
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	fn := m.onConfirm
	m.onConfirm = nil
	if strings.EqualFold(msg.String(), "y") && fn != nil {
		return m, fn()
	}
	m.setStatus("Cancelled")
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, id api.ID, value string) tea.Cmd {
	m.mode = modePrompt
	m.prompt = kind
	m.promptID = id
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = promptPlaceholder(kind)
	return m.input.Focus()
}

func promptTitle(kind promptKind) string {
	switch kind {
	case promptNewBook:
		return "Create New Book"
	case promptRenameBook:
		return "Rename Book"
	case promptNewChapter:
		return "Create New Chapter"
	case promptRenameChapter:
		return "Rename Chapter"
	default:
		return "Create New Tag"
	}
}

func promptPlaceholder(kind promptKind) string {
	switch kind {
	case promptNewBook, promptRenameBook:
		return "Enter book name..."
	case promptNewChapter, promptRenameChapter:
		return "Enter chapter name..."
	default:
		return "name [color], e.g. urgent bg-red-500"
	}
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = m.promptReturnMode()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.input.Blur()
		m.mode = m.promptReturnMode()
		return m, m.submitPrompt(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) promptReturnMode() mode {
	if m.prompt == promptNewTag {
		return modeTags
	}
	return modeBrowse
}

func (m *Model) submitPrompt(value string) tea.Cmd {
	id := m.promptID
	switch m.prompt {
	case promptNewBook:
		return m.run(func(ctx context.Context) error { _, err := m.ws.CreateBook(ctx, value); return err })
	case promptRenameBook:
		return m.run(func(ctx context.Context) error { _, err := m.ws.RenameBook(ctx, id, value); return err })
	case promptNewChapter:
		return m.run(func(ctx context.Context) error { _, err := m.ws.CreateChapter(ctx, value); return err })
	case promptRenameChapter:
		return m.run(func(ctx context.Context) error { _, err := m.ws.RenameChapter(ctx, id, value); return err })
	default:
		name, color := parseTagInput(value)
		return m.run(func(ctx context.Context) error { _, err := m.ws.CreateTag(ctx, name, color); return err })
	}
}

// parseTagInput splits "name [color]". A trailing bg-* word is the color.
func parseTagInput(s string) (name, color string) {
	fields := strings.Fields(s)
	if n := len(fields); n > 1 && strings.HasPrefix(fields[n-1], "bg-") {
		return strings.Join(fields[:n-1], " "), fields[n-1]
	}
	return strings.Join(fields, " "), ""
}

func (m *Model) openEditor(id api.ID, text string) tea.Cmd {
	m.mode = modeEditor
	m.editingID = id
	m.editor.SetValue(text)
	return m.editor.Focus()
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.Blur()
		m.mode = modeBrowse
		return m, nil
	case "ctrl+s":
		text := m.editor.Value()
		doc := richtext.FromPlainText(text)
		if doc.IsEmpty() {
			m.setStatus("Note is empty")
			return m, nil
		}
		m.editor.Blur()
		m.mode = modeBrowse
		content := doc.HTML()
		id := m.editingID
		if id == "" {
			return m, m.run(func(ctx context.Context) error { _, err := m.ws.CreateNote(ctx, content); return err })
		}
		return m, m.run(func(ctx context.Context) error { _, err := m.ws.UpdateNote(ctx, id, content); return err })
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.state.Search.Results
	switch msg.String() {
	case "esc":
		m.searchIn.Blur()
		m.mode = modeBrowse
		m.ws.Search("")
		return m, nil
	case "up", "ctrl+p":
		m.resultIdx = clamp(m.resultIdx-1, len(results))
		return m, nil
	case "down", "ctrl+n":
		m.resultIdx = clamp(m.resultIdx+1, len(results))
		return m, nil
	case "enter":
		if m.resultIdx >= len(results) {
			return m, nil
		}
		r := results[m.resultIdx]
		m.searchIn.Blur()
		m.mode = modeBrowse
		m.focus = paneNotes
		return m, m.run(func(ctx context.Context) error { return m.ws.OpenResult(ctx, r) })
	}
	var cmd tea.Cmd
	before := m.searchIn.Value()
	m.searchIn, cmd = m.searchIn.Update(msg)
	if v := m.searchIn.Value(); v != before {
		m.resultIdx = 0
		m.ws.Search(v)
	}
	return m, cmd
}

func (m *Model) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := m.state.Tags
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.Tags), msg.String() == "q":
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Up):
		m.tagCursor = clamp(m.tagCursor-1, len(tags))
	case key.Matches(msg, m.keys.Down):
		m.tagCursor = clamp(m.tagCursor+1, len(tags))
	case key.Matches(msg, m.keys.New):
		return m, m.openPrompt(promptNewTag, "", "")
	case key.Matches(msg, m.keys.Delete):
		if m.tagCursor < len(tags) {
			id := tags[m.tagCursor].ID
			return m, m.run(func(ctx context.Context) error { return m.ws.DeleteTag(ctx, id) })
		}
	}
	return m, nil
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func indexOrZero[T any](xs []T, id api.ID, key func(T) api.ID) int {
	return max(0, indexIn(xs, id, key))
}
