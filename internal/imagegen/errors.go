package imagegen

import (
	"fmt"
	"net/http"

	"zpcs/internal/domain"
)

// RequestError is returned when the backend answered with a non-success status.
type RequestError struct {
	Op         string
	StatusCode int
	// Body is nil when the response carried no decodable error document.
	Body      *domain.ErrorBody
	RequestID string
}

func (e *RequestError) Error() string {
	if e.Body != nil && e.Body.Message != "" {
		if e.Body.Error != "" {
			return fmt.Sprintf("imagegen: %s: %s (%s)", e.Op, e.Body.Message, e.Body.Error)
		}
		return fmt.Sprintf("imagegen: %s: %s", e.Op, e.Body.Message)
	}
	return fmt.Sprintf("imagegen: %s: status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns the backend-provided message, or "" when there is none.
func (e *RequestError) Message() string {
	if e.Body == nil {
		return ""
	}
	return e.Body.Message
}

// Is lets errors.Is match the domain sentinels for well-known statuses.
func (e *RequestError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrQuotaExceeded:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// TransportError is returned when no response could be obtained.
type TransportError struct {
	Op        string
	Err       error
	RequestID string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("imagegen: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
