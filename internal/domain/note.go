package domain

import "time"

// NoteDateLayout formats a note's creation day, e.g. "Mar 14, 2025".
const NoteDateLayout = "Jan 02, 2006"

// Note is a single rich-text entry. Content is canonical HTML produced by the
// richtext package.
type Note struct {
	ID        int64     `json:"id"`
	ChapterID int64     `json:"chapter_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Date returns the display date derived from CreatedAt.
func (n *Note) Date() string {
	return n.CreatedAt.Format(NoteDateLayout)
}

// Touch updates the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UTC()
}

// NoteSearchResult is a note together with the chapter and book it lives in.
type NoteSearchResult struct {
	Note
	ChapterName string `json:"chapter_name"`
	BookID      int64  `json:"book_id"`
	BookName    string `json:"book_name"`
}

// NoteDocument is what the search index needs to know about a note.
type NoteDocument struct {
	NoteID    int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}
