package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/response"
)

// ErrorHandler serialises the last error a handler attached with c.Error.
// Client errors are logged at debug, server errors at error level.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperror.From(err)

		event := log.Debug()
		if appErr.Status >= 500 {
			event = log.Error()
		}
		event.Err(err).
			Str("request_id", c.GetString(requestIDKey)).
			Str("code", appErr.Code()).
			Int("status", appErr.Status).
			Msg("Request failed")

		response.FromError(c, appErr)
	}
}
