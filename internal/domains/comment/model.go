package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a message on a chapter. RepliesTo is nil for top-level comments.
type Comment struct {
	CID       uuid.UUID  `json:"cid"`
	BID       uuid.UUID  `json:"bid"`
	Number    int        `json:"number"`
	PostedBy  uuid.UUID  `json:"posted_by"`
	Username  string     `json:"username"`
	Message   string     `json:"message"`
	RepliesTo *uuid.UUID `json:"replies_to"`
	Likes     int        `json:"likes"`
	Replies   int        `json:"replies"`
	PostedAt  time.Time  `json:"posted_at"`
}

// Target addresses one comment within its chapter.
type Target struct {
	BID    uuid.UUID
	Number int
	CID    uuid.UUID
}
