package comment

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var messageRules = []validation.Rule{
	validation.Required.Error("Message must be provided"),
	validation.RuneLength(1, 5000).Error("Message must be at most 5000 characters long"),
}

// CreateCommentRequest - replies_to, when set, must be a comment on the
// same chapter.
type CreateCommentRequest struct {
	Message   string     `json:"message"`
	RepliesTo *uuid.UUID `json:"replies_to"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

func (r *CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message, messageRules...),
	)
}

type CreateCommentResponse struct {
	Comment struct {
		CID uuid.UUID `json:"cid"`
	} `json:"comment"`
}

type UpdateCommentRequest struct {
	Message string `json:"message"`
}

func (r *UpdateCommentRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

func (r *UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Message, messageRules...),
	)
}

type LikesResponse struct {
	Comment struct {
		Likes int `json:"likes"`
	} `json:"comment"`
}
