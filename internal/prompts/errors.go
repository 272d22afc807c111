package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound   = errors.New("prompt not found")
	ErrValidation = errors.New("validation failed")
)

// MapHTTPStatus maps prompt errors to HTTP status codes. Store failures
// that are neither missing records nor rejected input are server errors.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
