package chapter

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxTitleLength   = 200
	maxContentLength = 200000
)

// CreateChapterRequest - an empty title becomes "Chapter N".
type CreateChapterRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *CreateChapterRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreateChapterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, titleLength),
		validation.Field(&r.Content, contentLength),
	)
}

type CreateChapterResponse struct {
	Chapter struct {
		Number int `json:"number"`
	} `json:"chapter"`
}

// UpdateChapterRequest - absent or null fields are left unchanged.
type UpdateChapterRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r *UpdateChapterRequest) Normalize() {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
}

func (r *UpdateChapterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, titleLength),
		validation.Field(&r.Content, contentLength),
	)
}

var (
	titleLength   = validation.RuneLength(0, maxTitleLength).Error("Title must be at most 200 characters long")
	contentLength = validation.RuneLength(0, maxContentLength).Error("Content must be at most 200000 characters long")
)

type LikesResponse struct {
	Chapter struct {
		Likes int `json:"likes"`
	} `json:"chapter"`
}
