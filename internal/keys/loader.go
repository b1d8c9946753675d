// Package keys loads JSON Web Keys and key sets from JSON or PEM bytes and
// verifies compact JWS tokens against them.
package keys

import (
	"errors"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// pemEnvelope must match the whole input, body lines included.
var pemEnvelope = regexp.MustCompile(`(?s)^.*-----BEGIN .+-----.+-----END .+-----.*$`)

// IsPEM reports whether data is wrapped in a PEM envelope.
func IsPEM(data []byte) bool {
	return pemEnvelope.Match(data)
}

// LoadKey parses a single key. PEM input may hold a public or private key;
// anything else is parsed as a JSON JWK.
func LoadKey(data []byte) (*Key, error) {
	if IsPEM(data) {
		k, err := jwk.ParseKey(data, jwk.WithPEM(true))
		if err != nil {
			return nil, &FormatError{Encoding: "pem", Err: err}
		}
		return NewKey(k), nil
	}

	k, err := jwk.ParseKey(data)
	if err != nil {
		return nil, &FormatError{Encoding: "json", Err: err}
	}
	return NewKey(k), nil
}

// LoadKeySet parses a JWKS document ({"keys": [...]}).
func LoadKeySet(data []byte) (*KeySet, error) {
	var probe struct {
		Keys json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &FormatError{Encoding: "json", Err: err}
	}
	if len(probe.Keys) == 0 {
		return nil, &FormatError{Encoding: "json", Err: errors.New(`missing "keys" member`)}
	}

	set, err := jwk.Parse(data)
	if err != nil {
		return nil, &FormatError{Encoding: "json", Err: err}
	}
	return NewKeySet(set), nil
}
