package chapter

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is one numbered part of a book. CreatedAt is only filled in for
// the book's owner.
type Chapter struct {
	BID         uuid.UUID  `json:"bid"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Likes       int        `json:"likes"`
	Reads       int        `json:"reads"`
}

// Summary is a chapter without its content, as listed under a book.
type Summary struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at"`
	Likes       int        `json:"likes"`
	Reads       int        `json:"reads"`
}

// LastRead is the most recently read chapter of a book for one user.
type LastRead struct {
	Number int       `json:"number"`
	ReadAt time.Time `json:"read_at"`
}

// Patch is a partial update; nil fields are left unchanged. An empty title
// resets the chapter to its default "Chapter N" title.
type Patch struct {
	Title   *string
	Content *string
}
