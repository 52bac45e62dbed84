package save

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var statuses = []interface{}{StatusUnread, StatusReading, StatusRead}

// SaveBookRequest - status defaults to unread.
type SaveBookRequest struct {
	Status Status `json:"status"`
}

func (r *SaveBookRequest) Normalize() {
	r.Status = Status(strings.ToLower(strings.TrimSpace(string(r.Status))))
	if r.Status == "" {
		r.Status = StatusUnread
	}
}

func (r *SaveBookRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.In(statuses...).Error("Status must be one of unread, reading or read")),
	)
}

type UpdateSaveRequest struct {
	Status Status `json:"status"`
}

func (r *UpdateSaveRequest) Normalize() {
	r.Status = Status(strings.ToLower(strings.TrimSpace(string(r.Status))))
}

func (r *UpdateSaveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required.Error(ErrInvalidUpdate.Message),
			validation.In(statuses...).Error(ErrInvalidUpdate.Message),
		),
	)
}
