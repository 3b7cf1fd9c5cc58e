package predict

import (
	"fmt"
	"net/http"

	"calorie-predictor/internal/retry"
)

// Error is a failed prediction call. Kind is decided where the failure is detected.
type Error struct {
	Kind   retry.Kind
	Status int    // HTTP status, 0 when no response arrived
	Body   string // response text, or status text when the body was empty
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("API %d: %s", e.Status, e.Body)
	case e.Kind == retry.Timeout:
		return fmt.Sprintf("request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// RetryKind implements retry.Classified.
func (e *Error) RetryKind() retry.Kind { return e.Kind }

func kindForStatus(status int) retry.Kind {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return retry.ServerUnavailable
	default:
		return retry.Other
	}
}
