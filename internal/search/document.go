// Package search provides full-text search over notes using Bleve.
//
// Notes are indexed as their folded plain text: markup is stripped, case is
// lowered and accents removed, so a query matches regardless of formatting,
// case or diacritics.
package search

import (
	"strconv"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

// Field names in the index.
const (
	fieldNoteID    = "note_id"
	fieldUserID    = "user_id"
	fieldText      = "text"
	fieldCreatedAt = "created_at"
)

// NoteDocument is what gets stored in the index for one note.
type NoteDocument struct {
	NoteID    string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// NewNoteDocument converts a note into its indexed form.
func NewNoteDocument(doc *domain.NoteDocument) *NoteDocument {
	return &NoteDocument{
		NoteID:    docID(doc.NoteID),
		UserID:    strconv.FormatInt(doc.UserID, 10),
		Text:      richtext.Fold(richtext.PlainText(doc.Content)),
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

// ToMap converts the document to a map with field names matching the mapping.
func (d *NoteDocument) ToMap() map[string]any {
	return map[string]any{
		fieldNoteID:    d.NoteID,
		fieldUserID:    d.UserID,
		fieldText:      d.Text,
		fieldCreatedAt: d.CreatedAt,
	}
}

func docID(noteID int64) string {
	return strconv.FormatInt(noteID, 10)
}
