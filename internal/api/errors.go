package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/content-modeling-api/internal/service"
	"github.com/content-modeling-api/internal/slug"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var inputErr *service.InputError
	var confirmErr *service.ConfirmationError

	switch {
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": inputErr.Errors})
	case errors.As(err, &confirmErr):
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error":             "confirmation required",
			"action":            confirmErr.Action.ID,
			"confirmation_text": confirmErr.Action.ConfirmationText,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, slug.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "slug already in use, retry the request"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// queryInt reads an integer query parameter, returning 0 when absent or malformed
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
