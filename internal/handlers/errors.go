package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/dto"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors become a bare 500 so internals never leak to clients.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		dto.JsonError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidOrExpired),
		errors.Is(err, service.ErrInvalidRoomKey):
		dto.JsonError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrWrongPortal),
		errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrQuizNotApproved):
		dto.JsonError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrNotRegistered):
		dto.JsonError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrAlreadySubmitted):
		dto.JsonError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrThrottled):
		dto.JsonError(c, http.StatusTooManyRequests, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		dto.JsonError(c, http.StatusInternalServerError)
	}
}
