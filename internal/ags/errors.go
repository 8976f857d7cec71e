package ags

import (
	"errors"
	"fmt"
)

// APIError is an error returned by the AGS control plane. Any non-transport
// failure of a call surfaces as one of these; callers decide whether it is
// fatal to the run or only to a single image.
type APIError struct {
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("ags: %s: %s (request id %s)", e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("ags: %s: %s", e.Code, e.Message)
}

// IsAPIError reports whether err is (or wraps) a control-plane error and
// returns it when so.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
