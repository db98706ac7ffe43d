package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
	"github.com/yourusername/quizsetup-api/internal/service"
)

// respondError maps an application error onto an HTTP status and a
// human-readable message. The wrapped message is passed through so the
// client can show the backend-provided reason when one exists.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrUnavailable), errors.Is(err, service.ErrGoogleLoginDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrGoogleTokenVerificationFailed):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
