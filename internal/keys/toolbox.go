package keys

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// GeneratedKeyBits is the RSA modulus size used by GenerateRSA.
const GeneratedKeyBits = 2048

// ErrMissingAlgorithm is returned when signing with a key that carries no alg.
var ErrMissingAlgorithm = errors.New("JSON Web Key Missing Signing Algorithm")

// GenerateRSA creates a private RS256 signing key.
func GenerateRSA() (*Key, error) {
	raw, err := rsa.GenerateKey(rand.Reader, GeneratedKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	key, err := jwk.FromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWK: %w", err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, err
	}
	return NewKey(key), nil
}

// AssignKeyID sets a random UUID as the key's kid and returns it.
func (k *Key) AssignKeyID() (string, error) {
	kid := uuid.NewString()
	if err := k.key.Set(jwk.KeyIDKey, kid); err != nil {
		return "", fmt.Errorf("failed to set kid: %w", err)
	}
	return kid, nil
}

// Public returns the public half of the key. Symmetric keys are returned as-is.
func (k *Key) Public() (*Key, error) {
	pub, err := jwk.PublicKeyOf(k.key)
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	return NewKey(pub), nil
}

// PEM encodes the key in PEM form.
func (k *Key) PEM() ([]byte, error) {
	buf, err := jwk.EncodePEM(k.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}
	return buf, nil
}

// Sign creates a compact token over payload, which must be a JSON object.
// The protected header is {"typ":"JWT","alg":<key alg>}, plus the key's kid if set.
func (k *Key) Sign(payload []byte) (string, error) {
	ka := k.key.Algorithm().String()
	if ka == "" {
		return "", ErrMissingAlgorithm
	}
	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(ka); err != nil {
		return "", fmt.Errorf("unsupported signature algorithm %q: %w", ka, err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}
	if obj == nil {
		return "", errors.New("invalid payload: not a JSON object")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return "", fmt.Errorf("failed to compact payload: %w", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.TypeKey, "JWT"); err != nil {
		return "", err
	}

	signed, err := jws.Sign(compact.Bytes(), jws.WithKey(alg, k.key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// NewKeySetOf builds a key set from keys, in order.
func NewKeySetOf(keys ...*Key) (*KeySet, error) {
	set := jwk.NewSet()
	for _, k := range keys {
		if err := set.AddKey(k.key); err != nil {
			return nil, fmt.Errorf("failed to add key to set: %w", err)
		}
	}
	return NewKeySet(set), nil
}

// Public returns a key set holding the public half of every member.
func (s *KeySet) Public() (*KeySet, error) {
	pub, err := jwk.PublicSetOf(s.set)
	if err != nil {
		return nil, fmt.Errorf("failed to get public key set: %w", err)
	}
	return NewKeySet(pub), nil
}
