package media

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/gallery/pkg/storage"
)

var (
	ErrInvalidType = errors.New("file must be an image")
	ErrTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUpload      = errors.New("upload to media host failed")
	ErrNotFound    = errors.New("media not found")
)

// MapHTTPStatus maps media and storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpload):
		return http.StatusInternalServerError
	default:
		return storage.MapHTTPStatus(err)
	}
}
