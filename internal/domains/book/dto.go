package book

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"serialfic-backend/internal/shared/listing"
)

// ========================================
// WRITE DTOs
// ========================================

// CreateBookRequest - cover is an image payload for the image host.
type CreateBookRequest struct {
	Title string `json:"title"`
	Blurb string `json:"blurb"`
	Cover string `json:"cover"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Blurb = strings.TrimSpace(r.Blurb)
}

func (r *CreateBookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.Required.Error("Title must be provided"),
			validation.RuneLength(1, 200).Error("Title must be at most 200 characters long"),
		),
		validation.Field(&r.Blurb,
			validation.RuneLength(0, 5000).Error("Blurb must be at most 5000 characters long"),
		),
	)
}

type CreateBookResponse struct {
	Book struct {
		BID   uuid.UUID `json:"bid"`
		Image string    `json:"image"`
	} `json:"book"`
}

// UpdateBookRequest - absent or null fields are left unchanged. An empty
// blurb clears it and an empty cover removes the cover image.
type UpdateBookRequest struct {
	Title *string `json:"title"`
	Blurb *string `json:"blurb"`
	Cover *string `json:"cover"`
}

func (r *UpdateBookRequest) Normalize() {
	for _, f := range []*string{r.Title, r.Blurb} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil,
				validation.By(notBlank("Title cannot be empty")),
				validation.RuneLength(1, 200).Error("Title must be at most 200 characters long"),
			),
		),
		validation.Field(&r.Blurb,
			validation.RuneLength(0, 5000).Error("Blurb must be at most 5000 characters long"),
		),
	)
}

// notBlank rejects an empty string behind a non-nil pointer, which
// validation.Required would treat as absent.
func notBlank(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, ok := value.(*string)
		if ok && s != nil && *s == "" {
			return validation.NewError("validation_not_blank", message)
		}
		return nil
	}
}

// ========================================
// LISTING
// ========================================

// SortFields are the API sort keys for book listings.
var SortFields = listing.SortFields{
	"title":        "b.title",
	"published_at": "b.published_at",
	"created_at":   "b.created_at",
	"likes":        "total_likes",
	"reads":        "total_reads",
	"chapters":     "chapter_count",
}

const DefaultSort = "-published_at"
