package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrGenerationInFlight = errors.New("generation already in progress")
	ErrUnsupportedImage   = errors.New("unsupported image format")
	ErrMissingSourceImage = errors.New("source image required")
	ErrQuotaExceeded      = errors.New("quota exceeded")
)

// ValidationError reports a client-side gating failure. It never reaches the
// generation session; callers show it next to the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// ErrorBody is the JSON error document returned by the backend.
type ErrorBody struct {
	Error             string    `json:"error"`
	Message           string    `json:"message"`
	Timestamp         Timestamp `json:"timestamp"`
	RetryAfterSeconds *int      `json:"retryAfterSeconds,omitempty"`
}

// Error codes the backend puts in ErrorBody.Error.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "IMAGE_NOT_FOUND"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"
	CodeInternal      = "INTERNAL_ERROR"
)
