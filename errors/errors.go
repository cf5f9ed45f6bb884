package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrParticipantNotFound      = fmt.Errorf("participant not found")
	ErrParticipantAlreadyExists = fmt.Errorf("participant already exists")
	ErrReservedName             = fmt.Errorf("name is reserved")
	ErrUnknownSender            = fmt.Errorf("sender is not a participant")
	ErrMessageNotFound          = fmt.Errorf("message not found")
	ErrNotMessageOwner          = fmt.Errorf("message belongs to another participant")
	ErrInvalidPayload           = fmt.Errorf("invalid payload")
	ErrInvalidLimit             = fmt.Errorf("limit must be a positive integer")
	ErrMissingUser              = fmt.Errorf("user header is required")
	ErrStore                    = fmt.Errorf("store failure")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MapToHTTPStatus translates domain errors into HTTP status codes.
// Anything unknown is reported as an internal error.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrParticipantAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrParticipantNotFound), errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotMessageOwner):
		return http.StatusUnauthorized
	case errors.Is(err, ErrReservedName),
		errors.Is(err, ErrUnknownSender),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrInvalidLimit),
		errors.Is(err, ErrMissingUser):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
