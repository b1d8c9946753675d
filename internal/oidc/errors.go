package oidc

import (
	"errors"
	"fmt"
)

// ErrResolution is wrapped by every resolver error.
var ErrResolution = errors.New("oidc resolution failed")

// HTTPError reports a transport failure or a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int // zero on transport failure
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *HTTPError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Err}
}

// MissingFieldError reports a discovery document without a required field.
type MissingFieldError struct {
	URL   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("OpenID Connect Configuration(%s) does not contain %s endpoint.", e.URL, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrResolution
}
