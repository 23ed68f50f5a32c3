package api

import (
	"errors"
	"net/http"

	"github.com/autosphere/autosphere-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps a service error onto its HTTP status. Validation, auth
// and not-found messages pass through; storage causes are logged and
// replaced with a generic message.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		log.Error().Err(err).Msg("Unclassified error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch apiErr.Kind {
	case models.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": apiErr.Message})
	case models.ErrAuth:
		c.JSON(http.StatusUnauthorized, gin.H{"error": apiErr.Message})
	case models.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": apiErr.Message})
	default:
		log.Error().Err(apiErr.Cause).Msg("Storage failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
