package keys

import (
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Material is key material a compact token can be verified against.
// alg and kid are the values of the token's protected header.
type Material interface {
	Verify(token []byte, alg, kid string) error
}

// Key is a single JSON Web Key.
type Key struct {
	key jwk.Key
}

// NewKey wraps an existing jwk.Key.
func NewKey(k jwk.Key) *Key {
	return &Key{key: k}
}

// JWK returns the underlying key.
func (k *Key) JWK() jwk.Key {
	return k.key
}

// Verify checks the token signature directly against the key.
func (k *Key) Verify(token []byte, alg, _ string) error {
	return verifyWith(token, alg, k.key)
}

// KeySet is an ordered JSON Web Key Set.
type KeySet struct {
	set jwk.Set
}

// NewKeySet wraps an existing jwk.Set.
func NewKeySet(s jwk.Set) *KeySet {
	return &KeySet{set: s}
}

// Set returns the underlying key set.
func (s *KeySet) Set() jwk.Set {
	return s.set
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	return s.set.Len()
}

// Verify selects the member named by kid, first match wins. Without a kid
// every signature key is tried in order until one validates.
func (s *KeySet) Verify(token []byte, alg, kid string) error {
	if kid != "" {
		k, ok := s.set.LookupKeyID(kid)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNoMatchingKey, kid)
		}
		return verifyWith(token, alg, k)
	}

	var errs []error
	for i := 0; i < s.set.Len(); i++ {
		k, ok := s.set.Key(i)
		if !ok || k.KeyUsage() == string(jwk.ForEncryption) {
			continue
		}
		err := verifyWith(token, alg, k)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return ErrNoUsableKey
	}
	return errors.Join(errs...)
}

func verifyWith(token []byte, headerAlg string, key jwk.Key) error {
	alg, err := signatureAlgorithm(headerAlg, key)
	if err != nil {
		return err
	}

	pub, err := jwk.PublicKeyOf(key)
	if err != nil {
		return fmt.Errorf("failed to derive public key: %w", err)
	}

	if _, err := jws.Verify(token, jws.WithKey(alg, pub)); err != nil {
		return fmt.Errorf("failed to verify signature: %w", err)
	}
	return nil
}

// signatureAlgorithm prefers the key's own alg and requires it to agree
// with the token header.
func signatureAlgorithm(headerAlg string, key jwk.Key) (jwa.SignatureAlgorithm, error) {
	var alg jwa.SignatureAlgorithm
	if ka := key.Algorithm().String(); ka != "" {
		if headerAlg != "" && ka != headerAlg {
			return alg, fmt.Errorf("%w: key %s, token %s", ErrAlgorithmMismatch, ka, headerAlg)
		}
		headerAlg = ka
	}
	if err := alg.Accept(headerAlg); err != nil {
		return alg, fmt.Errorf("unsupported signature algorithm %q: %w", headerAlg, err)
	}
	return alg, nil
}
