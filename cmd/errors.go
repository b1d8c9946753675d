package cmd

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errInvalidSignature is returned after an unverified token has been rendered.
var errInvalidSignature = errors.New("invalid signature")

// usageError is printed as "Error: <message>" and exits with ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func asUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}
