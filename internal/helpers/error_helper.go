package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithStateError keeps the {status, error} envelope the map frontend
// expects from the listing endpoints.
func RespondWithStateError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status": statusCode,
		"error":  message,
	})
}
