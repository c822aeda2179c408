package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/workspace"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

const excerptLen = 120

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.mode {
	case modePrompt:
		body = dialogStyle.Render(titleStyle.Render(promptTitle(m.prompt)) + "\n\n" + m.input.View() +
			"\n\n" + mutedStyle.Render("enter to save, esc to cancel"))
	case modeEditor:
		title := "New Note"
		if m.editingID != "" {
			title = "Edit Note"
		}
		body = dialogStyle.Render(titleStyle.Render(title) + "\n\n" + m.editor.View() +
			"\n\n" + mutedStyle.Render("ctrl+s to save, esc to cancel"))
	case modeConfirm:
		body = dialogStyle.Render(m.confirm + "\n\n" + mutedStyle.Render("y to confirm, any other key to cancel"))
	case modeSearch:
		body = m.searchView()
	case modeTags:
		body = m.tagsView()
	default:
		body = m.panesView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(mutedStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) headerView() string {
	header := titleStyle.Render("NoteKeeper")
	if m.user != "" {
		header += mutedStyle.Render("  " + m.user)
	}
	if book, ok := m.state.SelectedBook(); ok {
		crumb := book.Name
		if ch, ok := m.state.SelectedChapter(); ok {
			crumb += " / " + ch.Name
		}
		header += "  " + crumb
	}
	return header
}

func (m *Model) panesView() string {
	st := m.state
	narrow := max(18, m.width/5)
	wide := max(30, m.width-2*narrow-8)
	height := max(8, m.height-6)

	books := make([]string, 0, len(st.Books))
	for _, b := range st.Books {
		books = append(books, fmt.Sprintf("%s %s", b.Name, mutedStyle.Render(fmt.Sprintf("(%d)", b.NoteCount))))
	}
	booksPane := m.listPane(paneBooks, "Books", books, indexIn(st.Books, st.SelectedBookID, func(b api.Book) api.ID { return b.ID }), narrow, height,
		st.IsLoading(workspace.SlotBooks), "No books yet. Press n to create one.")

	var chaptersPane string
	if st.SelectedBookID == "" {
		chaptersPane = m.emptyPane(paneChapters, "Chapters", "Select a book", narrow, height)
	} else {
		chapters := make([]string, 0, len(st.Chapters))
		for _, c := range st.Chapters {
			chapters = append(chapters, fmt.Sprintf("%s %s", c.Name, mutedStyle.Render(c.Date)))
		}
		chaptersPane = m.listPane(paneChapters, "Chapters", chapters, indexIn(st.Chapters, st.SelectedChapterID, func(c api.Chapter) api.ID { return c.ID }), narrow, height,
			st.IsLoading(workspace.SlotChapters), "No chapters yet. Press n to add one.")
	}

	var notesPane string
	if st.SelectedChapterID == "" {
		notesPane = m.emptyPane(paneNotes, "Notes", "Select a chapter", wide, height)
	} else {
		notes := make([]string, 0, len(st.Notes))
		for _, n := range st.Notes {
			notes = append(notes, renderNote(n.Content, n.Date))
		}
		notesPane = m.listPane(paneNotes, "Notes", notes, -1, wide, height,
			st.IsLoading(workspace.SlotNotes), "No notes yet. Press n to write one.")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, booksPane, chaptersPane, notesPane)
}

// renderNote shows stored note HTML as markdown, falling back to plain text.
func renderNote(content, date string) string {
	text, err := richtext.Markdown(content)
	if err != nil || strings.TrimSpace(text) == "" {
		text = richtext.PlainText(content)
	}
	return mutedStyle.Render(date) + "\n" + strings.TrimSpace(text)
}

func (m *Model) listPane(p pane, title string, rows []string, selected, width, height int, loading bool, empty string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if loading {
		b.WriteString(mutedStyle.Render(" loading..."))
	}
	b.WriteString("\n\n")
	if len(rows) == 0 && !loading {
		b.WriteString(mutedStyle.Render(empty))
	}
	for i, row := range rows {
		style := lipgloss.NewStyle()
		if i == selected {
			style = selectedStyle
		}
		if p == m.focus && i == m.cursor[p] {
			style = style.Inherit(cursorStyle)
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	return m.frame(p, width, height).Render(b.String())
}

func (m *Model) emptyPane(p pane, title, hint string, width, height int) string {
	return m.frame(p, width, height).Render(titleStyle.Render(title) + "\n\n" + mutedStyle.Render(hint))
}

func (m *Model) frame(p pane, width, height int) lipgloss.Style {
	style := paneStyle
	if p == m.focus {
		style = focusedPaneStyle
	}
	return style.Width(width).Height(height)
}

func (m *Model) searchView() string {
	s := m.state.Search
	var b strings.Builder
	b.WriteString(m.searchIn.View())
	b.WriteString("\n\n")
	switch {
	case s.Query == "":
	case m.state.IsLoading(workspace.SlotSearch):
		b.WriteString(mutedStyle.Render("Searching..."))
	case len(s.Results) == 0:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No notes match %q", s.Query)))
	}
	for i, r := range s.Results {
		line := fmt.Sprintf("%s / %s\n  %s", r.BookName, r.ChapterName,
			richtext.Excerpt(richtext.PlainText(r.Content), s.Query, excerptLen))
		if i == m.resultIdx {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return dialogStyle.Width(max(40, m.width-6)).Render(b.String())
}

func (m *Model) tagsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tags"))
	b.WriteString("\n\n")
	if len(m.state.Tags) == 0 {
		b.WriteString(mutedStyle.Render("No tags. Press n to create one."))
	}
	for i, t := range m.state.Tags {
		prefix := "  "
		if i == m.tagCursor {
			prefix = "> "
		}
		b.WriteString(prefix + tagStyle(t.Color).Render(t.Name) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("n new, d delete, esc close"))
	return dialogStyle.Render(b.String())
}

func indexIn[T any](xs []T, id api.ID, key func(T) api.ID) int {
	for i, x := range xs {
		if key(x) == id {
			return i
		}
	}
	return -1
}
