package resp

import (
	"errors"
	"log"
	"net/http"

	"calorie-assistant/services"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}

// Error maps service errors onto HTTP statuses.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, services.ErrInvalidUnit),
		errors.Is(err, services.ErrUnitMismatch):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExtractorDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrExtractionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
