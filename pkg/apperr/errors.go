package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the service error taxonomy. Callers wrap these
// with fmt.Errorf("%w: ...") and deliveries map them with HTTPStatus.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidStockOperation = errors.New("invalid stock operation")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrIntegrity             = errors.New("integrity violation")
)

// HTTPStatus maps a taxonomy error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidStockOperation),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
