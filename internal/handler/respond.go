// Package handler exposes the admin API over HTTP using gin.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"coin-admin-api/internal/repository"
	"coin-admin-api/internal/service"
)

// respondError maps service and repository errors onto the HTTP error
// taxonomy. Every error body is {"message": string}; unexpected errors
// are logged server-side and reported generically.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"message": "account is not approved"})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGameNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrDuplicateGame),
		errors.Is(err, repository.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

// respondValidation reports a malformed request body or parameter.
func respondValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
