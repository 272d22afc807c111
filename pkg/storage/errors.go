package storage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

var (
	ErrNotFound    = errors.New("blob not found")
	ErrEmptyKey    = errors.New("storage key must not be empty")
	ErrInvalidKey  = errors.New("storage key contains invalid path segment")
	ErrUnavailable = errors.New("blob container unavailable")
)

// ValidateKey reports whether key is usable as a blob name.
func ValidateKey(key string) error {
	return validateKey(key)
}

func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.Contains(key, ".."):
		return ErrInvalidKey
	}
	return nil
}

// classify converts Azure service errors into package sentinels.
func classify(op, key string, err error) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return ErrNotFound
	case bloberror.HasCode(err, bloberror.ContainerNotFound, bloberror.ContainerBeingDeleted):
		return fmt.Errorf("%s blob %s: %w", op, key, ErrUnavailable)
	}
	return fmt.Errorf("%s blob %s: %w", op, key, err)
}

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
