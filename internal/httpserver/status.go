package httpserver

import (
	"errors"
	"net/http"

	"mybooklist/internal/auth"
	"mybooklist/internal/domain"
	usersvc "mybooklist/internal/service/user"
	"github.com/gin-gonic/gin"
)

// statusOf maps classified service failures onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, usersvc.ErrInvalidCredentials),
		errors.Is(err, usersvc.ErrNotVerified),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCartNotCurrent),
		errors.Is(err, domain.ErrBookNotInCart),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func writeMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
