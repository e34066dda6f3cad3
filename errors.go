package galleria

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a session token is older than its time-to-live
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Upload rejections. All of them match ErrInvalidInput with errors.Is.
var (
	ErrExtensionNotAllowed = fmt.Errorf("%w: extension not allowed", ErrInvalidInput)
	ErrUnsupportedMIME     = fmt.Errorf("%w: unsupported mime type", ErrInvalidInput)
	ErrInvalidImage        = fmt.Errorf("%w: invalid image file", ErrInvalidInput)
)

// RejectionReason returns the user-facing reason for an upload rejection.
// The second result is false when err is not a rejection.
func RejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrExtensionNotAllowed):
		return "File extension not allowed", true
	case errors.Is(err, ErrUnsupportedMIME):
		return "Unsupported image MIME type", true
	case errors.Is(err, ErrInvalidImage):
		return "Invalid image file", true
	default:
		return "", false
	}
}
