package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an opaque entity identifier. The server sends integers; the client
// never does arithmetic on them.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// User is the authenticated account.
type User struct {
	ID        ID        `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Book is a top-level notebook.
type Book struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chapter groups notes inside a book.
type Chapter struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	BookID    ID        `json:"book_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note holds rich HTML content.
type Note struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	ChapterID ID        `json:"chapter_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchResult is a note with the names of its chapter and book.
type SearchResult struct {
	Note
	ChapterName string `json:"chapter_name"`
	BookID      ID     `json:"book_id"`
	BookName    string `json:"book_name"`
}

// Tag is a named color label.
type Tag struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagUpdate carries the mutable tag fields. Nil fields are left unchanged.
type TagUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// TokenResponse is returned by login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ForgotPasswordResponse is returned by forgot-password. ResetToken is only
// set by servers running in development mode.
type ForgotPasswordResponse struct {
	Message    string  `json:"message"`
	ResetToken *string `json:"reset_token,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
