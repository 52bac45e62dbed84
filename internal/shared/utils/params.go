package utils

import (
	"errors"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"serialfic-backend/internal/shared/apperror"
)

// Normalizer is implemented by requests that trim or default their fields
// before validation.
type Normalizer interface {
	Normalize()
}

// BindJSON decodes the body into req, then normalizes and validates it.
// Every failure is an input error carrying the first validation message.
func BindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Input("Invalid request body")
	}
	return check(req)
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted; an
// empty body leaves req at its zero value before normalization.
func BindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.ContentLength == 0 {
		return check(req)
	}
	return BindJSON(c, req)
}

// BindQuery is BindJSON for query strings.
func BindQuery(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return apperror.Input("Invalid query parameters")
	}
	return check(req)
}

func check(req any) error {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if v, ok := req.(validation.Validatable); ok {
		return ValidationError(v.Validate())
	}
	return nil
}

// ValidationError converts an ozzo-validation result into an input error.
// Field errors are reported one at a time, in field name order.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		keys := make([]string, 0, len(fields))
		for k, v := range fields {
			if v != nil {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return nil
		}
		sort.Strings(keys)
		return ValidationError(fields[keys[0]])
	}

	var rule validation.Error
	if errors.As(err, &rule) {
		return apperror.Input(rule.Error())
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperror.Internal(err)
	}
	return apperror.Input(err.Error())
}

// UUIDParam parses a path parameter holding a uuid. A malformed id is
// reported with notFound, since no row can carry it.
func UUIDParam(c *gin.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// PositiveIntParam parses a path parameter holding a positive integer.
func PositiveIntParam(c *gin.Context, name string, notFound error) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 1 {
		return 0, notFound
	}
	return n, nil
}
