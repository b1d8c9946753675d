package decoder

import (
	"errors"
	"fmt"
)

// ErrMalformedToken is wrapped by every StructuralError.
var ErrMalformedToken = errors.New("malformed token")

// StructuralError reports a token that does not split into three segments
// or whose header or payload segment is not Base64URL encoded JSON.
type StructuralError struct {
	Segment string // "token", "header" or "payload"
	Err     error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMalformedToken, e.Segment, e.Err)
}

func (e *StructuralError) Unwrap() []error {
	return []error{ErrMalformedToken, e.Err}
}
