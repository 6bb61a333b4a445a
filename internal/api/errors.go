package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pageza/reciperoulette/backend/internal/recipestate"
	"github.com/pageza/reciperoulette/backend/internal/service"
)

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recipestate.ErrInvalidArgument),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInvalidValue),
		errors.Is(err, service.ErrIngredientNotFound):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, recipestate.ErrUserNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPreferencesNotFound),
		errors.Is(err, service.ErrBatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, recipestate.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidLLMResponse):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrGeneratorDisabled),
		errors.Is(err, service.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Internal errors are logged and hidden
// behind fallback so storage details never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	_ = c.Error(err)

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser returns the user id set by the auth middleware
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
