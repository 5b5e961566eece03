package backend

import (
	"errors"
	"fmt"
)

// Endpoint names as they appear in diagnostics and metrics
const (
	EndpointSearch      = "search"
	EndpointSuggestions = "suggestions"
)

// RequestFailure is the one error kind the client returns.
// It covers transport errors, non-2xx statuses and unusable bodies.
type RequestFailure struct {
	Endpoint   string
	URL        string
	StatusCode int // zero when no response arrived
	Err        error
}

func (f *RequestFailure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s request to %s failed with status %d: %v", f.Endpoint, f.URL, f.StatusCode, f.Err)
	}
	return fmt.Sprintf("%s request to %s failed: %v", f.Endpoint, f.URL, f.Err)
}

func (f *RequestFailure) Unwrap() error {
	return f.Err
}

// AsRequestFailure extracts a RequestFailure from err's chain
func AsRequestFailure(err error) (*RequestFailure, bool) {
	var rf *RequestFailure
	if errors.As(err, &rf) {
		return rf, true
	}
	return nil, false
}
