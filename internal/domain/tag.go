package domain

import "time"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "bg-blue-500"

// Tag is a named, colored label owned by a user. Tags are not attached to notes.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}
