package tag

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TagRequest names one tag. It is shared by tag creation and book tagging.
type TagRequest struct {
	Tag string `json:"tag"`
}

func (r *TagRequest) Normalize() {
	r.Tag = strings.TrimSpace(r.Tag)
}

func (r *TagRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Tag,
			validation.Required.Error("Tag must be provided"),
			validation.RuneLength(1, 32).Error("Tag must be at most 32 characters long"),
		),
	)
}
