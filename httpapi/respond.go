package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"realtyflow/assign"
	"realtyflow/auth"
	"realtyflow/favorite"
	"realtyflow/inquiry"
	"realtyflow/property"
)

// All responses use the {success, data|error} envelope.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internal detail never
// reaches the client.
func respondServiceError(c *gin.Context, err error) {
	var invalidTransition inquiry.ErrInvalidTransition

	switch {
	case errors.Is(err, property.ErrNotFound),
		errors.Is(err, inquiry.ErrNotFound),
		errors.Is(err, inquiry.ErrPropertyNotFound),
		errors.Is(err, favorite.ErrNotFound),
		errors.Is(err, favorite.ErrPropertyNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, property.ErrForbidden),
		errors.Is(err, inquiry.ErrForbidden):
		respondError(c, http.StatusForbidden, "Access denied")

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, favorite.ErrDuplicate),
		errors.Is(err, inquiry.ErrEmptyMessage),
		errors.Is(err, inquiry.ErrEmptyResponse),
		errors.Is(err, inquiry.ErrStaleStatus),
		errors.Is(err, property.ErrInvalidStatus),
		errors.Is(err, property.ErrMalformedPayload):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.As(err, &invalidTransition):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, assign.ErrNoAdmin):
		respondError(c, http.StatusInternalServerError, err.Error())

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
