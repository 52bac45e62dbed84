package book

import (
	"time"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/user"
)

// Book is a row of books with aggregates over its visible chapters.
//
// Tags is nil until loaded; list queries fill it in the same statement so
// the wrapper can skip a per-book lookup.
type Book struct {
	BID          uuid.UUID  `json:"bid"`
	Title        string     `json:"title"`
	Blurb        string     `json:"blurb"`
	WrittenBy    uuid.UUID  `json:"written_by"`
	Image        *string    `json:"image"`
	PublishedAt  *time.Time `json:"published_at"`
	CreatedAt    time.Time  `json:"created_at"`
	Likes        int        `json:"likes"`
	Reads        int        `json:"reads"`
	ChapterCount int        `json:"chapter_count"`

	Tags     []string         `json:"tags"`
	Chapters []ChapterSummary `json:"chapters"`
}

// ChapterSummary is a chapter as listed inside a book, without its content.
type ChapterSummary struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at"`
	Likes       int        `json:"likes"`
	Reads       int        `json:"reads"`
}

// WrappedBook is the response shape of every book read: the book, its
// chapters and tags, and its author's public profile.
type WrappedBook struct {
	User user.PublicProfile `json:"user"`
	Book *Book              `json:"book"`
}

// ListFilter narrows a book listing.
type ListFilter struct {
	PublishedOnly bool
	WrittenBy     *uuid.UUID
}

// Patch is a partial update. Nil fields are left unchanged; SetImage
// replaces the image with Image, which may be nil to remove it.
type Patch struct {
	Title    *string
	Blurb    *string
	SetImage bool
	Image    *string
}
