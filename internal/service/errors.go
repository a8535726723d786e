package service

import (
	"errors"

	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/repository"
)

// Service-level error taxonomy. Handlers translate these into HTTP statuses:
// validation 400, conflict 409, not-found 404, credential failures 401/403,
// throttled 429, anything else 500.
var (
	ErrNotFound = repository.ErrNotFound
	ErrConflict = repository.ErrConflict

	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrNotRegistered    = errors.New("email is not registered for the event")
	ErrThrottled        = errors.New("access code recently issued")
	ErrInvalidOrExpired = errors.New("invalid or expired access key")

	ErrInvalidRoomKey   = errors.New("invalid room key")
	ErrQuizNotApproved  = errors.New("quiz is not approved")
	ErrAlreadySubmitted = errors.New("score already submitted for this quiz")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email not verified")
	ErrWrongPortal        = errors.New("wrong login portal for this role")
	ErrBlocked            = errors.New("this account has been blocked")
)
