// Package decoder splits compact JSON Web Tokens into their header and
// payload and, when key material is supplied, checks the signature.
//
// Verification failures are never returned as errors: a token whose
// signature does not validate still decodes, with Verification set to
// NotVerified, so its claims can be inspected. Only structural problems
// with the token itself are errors.
package decoder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrschumacher/jwt-debugger/internal/keys"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
)

// ErrSegmentCount is the cause of a StructuralError for a token that does
// not consist of exactly three segments.
var ErrSegmentCount = errors.New("token must consist of a header, payload, and signature all separated by periods")

// DecodedToken is the result of a Decode call.
type DecodedToken struct {
	Raw          string
	Header       map[string]any
	Payload      map[string]any
	Verification Verification
}

// Segments holds the three encoded parts of a compact token.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// Split breaks a compact token into its segments. It does no decoding.
func Split(token string) (Segments, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Segments{}, &StructuralError{Segment: "token", Err: ErrSegmentCount}
	}
	if parts[0] == "" {
		return Segments{}, &StructuralError{Segment: "header", Err: errors.New("empty segment")}
	}
	return Segments{Header: parts[0], Payload: parts[1], Signature: parts[2]}, nil
}

// Decode parses token and, when material is non-nil, verifies its
// signature. Header and payload are always decoded from the token's own
// segments.
func Decode(token string, material keys.Material) (*DecodedToken, error) {
	segs, err := Split(token)
	if err != nil {
		return nil, err
	}

	header, err := decodeSegment("header", segs.Header)
	if err != nil {
		return nil, err
	}
	payload, err := decodeSegment("payload", segs.Payload)
	if err != nil {
		return nil, err
	}

	decoded := &DecodedToken{
		Raw:          token,
		Header:       header,
		Payload:      payload,
		Verification: NotAttempted,
	}
	if material == nil {
		return decoded, nil
	}

	alg, _ := header["alg"].(string)
	kid, _ := header["kid"].(string)
	if err := material.Verify([]byte(token), alg, kid); err != nil {
		logger.Debug("Signature verification failed", "alg", alg, "kid", kid, "error", err)
		decoded.Verification = NotVerified
		return decoded, nil
	}

	decoded.Verification = Verified
	return decoded, nil
}

// decodeSegment turns a Base64URL segment into a JSON object. An empty
// segment is an empty object. Numbers are kept as json.Number.
func decodeSegment(name, seg string) (map[string]any, error) {
	obj := map[string]any{}
	if seg == "" {
		return obj, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
	if err != nil {
		return nil, &StructuralError{Segment: name, Err: fmt.Errorf("invalid base64url: %w", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, &StructuralError{Segment: name, Err: fmt.Errorf("invalid JSON object: %w", err)}
	}
	if obj == nil {
		return nil, &StructuralError{Segment: name, Err: errors.New("JSON value is not an object")}
	}
	if dec.More() {
		return nil, &StructuralError{Segment: name, Err: errors.New("trailing data after JSON object")}
	}
	return obj, nil
}
