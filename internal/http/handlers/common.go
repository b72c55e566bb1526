package handlers

import (
	"net/http"

	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends the standard failure payload with request_id included.
// Every response body carries a "success" boolean.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"success":    false,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
