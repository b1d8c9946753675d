package keys

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyFormat is wrapped by every FormatError.
	ErrKeyFormat = errors.New("unsupported key format")
	// ErrNoMatchingKey is returned by KeySet.Verify when no member carries the token's kid.
	ErrNoMatchingKey = errors.New("no key in key set matches token kid")
	// ErrAlgorithmMismatch is returned when a key's alg differs from the token header alg.
	ErrAlgorithmMismatch = errors.New("key algorithm does not match token algorithm")
	// ErrNoUsableKey is returned when a key set has no member usable for signatures.
	ErrNoUsableKey = errors.New("key set has no signature keys")
)

// FormatError reports key bytes that are neither a PEM key nor a JSON JWK(S).
type FormatError struct {
	Encoding string // "pem" or "json"
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrKeyFormat, e.Encoding, e.Err)
}

func (e *FormatError) Unwrap() []error {
	return []error{ErrKeyFormat, e.Err}
}
