package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("request_id", c.GetString(requestIDKey)).
					Interface("panic", rec).
					Msg("Panic recovered")

				response.FromError(c, apperror.Internal(fmt.Errorf("panic: %v", rec)))
				c.Abort()
			}
		}()

		c.Next()
	}
}
