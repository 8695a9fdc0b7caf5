package web

import (
	"errors"
	"net/http"

	"travel/pkg/apiclient"
	"travel/pkg/validate"

	"github.com/gin-gonic/gin"
)

// WriteError renders the error kinds shared by every handler: field validation,
// backend rejections and everything else as 500.
func WriteError(c *gin.Context, err error) {
	var fe *validate.FieldErrors
	if errors.As(err, &fe) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": fe.Fields,
		})
		return
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"details": err.Error(),
	})
}

// BadRequest reports a malformed body.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// BackendMessage is the backend's own message when err carries one, else fallback.
func BackendMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
