package core

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by a SessionStore for an absent key
	ErrKeyNotFound = errors.New("session key not found")
	// ErrTransport marks network and response decoding failures
	ErrTransport = errors.New("transport failure")
	// ErrUnknownDemo is returned for a demo kind that does not exist
	ErrUnknownDemo = errors.New("unknown demo")
	// ErrNotMounted is returned when the detector page was never mounted
	ErrNotMounted = errors.New("detector page not mounted")
)

// User-visible messages shared by several controllers
const (
	MsgNetworkError   = "Network error. Please try again."
	MsgResendFailed   = "Failed to resend OTP"
	MsgAnalysisFailed = "Analysis failed: "
)

// APIError is an HTTP-level failure reported by the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// ValidationError is a local validation failure shown before any request
type ValidationError struct {
	Target  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// remoteMessage picks the text to show for a failed request
func remoteMessage(err error, transportMsg string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return transportMsg
}
