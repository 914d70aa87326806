package api

import (
	"errors"
	"fmt"

	"github.com/secureballot/cli/internal/common"
)

// Error is a failure reported by the authentication API: either an envelope
// with success=false or a non-2xx status. Message is the server's
// human-readable explanation and may be empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unwrap maps authentication rejections onto the shared sentinel so callers
// can match with errors.Is(err, common.ErrUnauthorized).
func (e *Error) Unwrap() error {
	if e.Status == 401 || e.Status == 403 {
		return common.ErrUnauthorized
	}
	return nil
}

// ErrorMessage extracts the server-provided message from err, falling back
// to the given flow-specific default when the error carries none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
