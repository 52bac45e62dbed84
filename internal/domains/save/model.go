package save

import (
	"time"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
)

// Status is a reader's progress through a saved book.
type Status string

const (
	StatusUnread  Status = "unread"
	StatusReading Status = "reading"
	StatusRead    Status = "read"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnread, StatusReading, StatusRead:
		return true
	}
	return false
}

// Save is a book on a user's shelf.
type Save struct {
	BID     uuid.UUID `json:"bid"`
	Status  Status    `json:"status"`
	SavedAt time.Time `json:"saved_at"`
}

// SavedBook is a wrapped book together with the reader's save state.
type SavedBook struct {
	book.WrappedBook
	Status  Status    `json:"status"`
	SavedAt time.Time `json:"saved_at"`
}
