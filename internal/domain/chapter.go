package domain

import "time"

// ChapterDateLayout formats a chapter's creation day, e.g. "03/14/25".
const ChapterDateLayout = "01/02/06"

// Chapter groups notes inside a book.
type Chapter struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Date returns the display date derived from CreatedAt.
func (c *Chapter) Date() string {
	return c.CreatedAt.Format(ChapterDateLayout)
}

// Touch updates the UpdatedAt timestamp.
func (c *Chapter) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
