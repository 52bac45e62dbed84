package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serialfic-backend/internal/shared/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// OK responds 200 with no data.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true})
}

func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// FromError renders any error using its application kind.
func FromError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	ErrorResponse(c, appErr.Status, appErr.Code(), appErr.Message)
}
