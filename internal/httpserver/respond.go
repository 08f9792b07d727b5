package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"photoprint/internal/domain"
)

// respondError maps domain errors onto HTTP statuses in one place.
// Validation and conflict errors are safe to surface verbatim; anything
// unrecognized is logged and reported as an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrUnsupportedJurisdiction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrPhotoLocked),
		errors.Is(err, domain.ErrAlreadyLocked),
		errors.Is(err, domain.ErrPhotoUnavailable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSizeInactive),
		errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDependency):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream dependency failed"})
	default:
		log.WithError(err).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
