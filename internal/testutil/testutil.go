// Package testutil provides key, token and OIDC provider fixtures for tests
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// TestServer creates a test HTTP server - mux should be set up by the test
func TestServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
	})

	return server
}

// RSAKey generates a 2048 bit RS256 signing key. An empty kid leaves the
// key without a key ID.
func RSAKey(t *testing.T, kid string) jwk.Key {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}

	key, err := jwk.FromRaw(raw)
	if err != nil {
		t.Fatalf("Failed to wrap RSA key: %v", err)
	}
	_ = key.Set(jwk.AlgorithmKey, jwa.RS256)
	_ = key.Set(jwk.KeyUsageKey, "sig")
	if kid != "" {
		_ = key.Set(jwk.KeyIDKey, kid)
	}
	return key
}

// PublicJWK returns the JSON encoding of the public half of key.
func PublicJWK(t *testing.T, key jwk.Key) []byte {
	t.Helper()

	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("Failed to derive public key: %v", err)
	}
	return MarshalJSON(t, pub)
}

// PublicPEM returns the PEM encoding of the public half of key.
func PublicPEM(t *testing.T, key jwk.Key) []byte {
	t.Helper()

	pub, err := key.PublicKey()
	if err != nil {
		t.Fatalf("Failed to derive public key: %v", err)
	}
	pemBytes, err := jwk.EncodePEM(pub)
	if err != nil {
		t.Fatalf("Failed to encode PEM: %v", err)
	}
	return pemBytes
}

// PublicJWKS returns a JWKS document holding the public halves of keys.
func PublicJWKS(t *testing.T, keys ...jwk.Key) []byte {
	t.Helper()

	set := jwk.NewSet()
	for _, key := range keys {
		pub, err := key.PublicKey()
		if err != nil {
			t.Fatalf("Failed to derive public key: %v", err)
		}
		if err := set.AddKey(pub); err != nil {
			t.Fatalf("Failed to add key to set: %v", err)
		}
	}
	return MarshalJSON(t, set)
}

// MarshalJSON encodes v or fails the test.
func MarshalJSON(t *testing.T, v any) []byte {
	t.Helper()

	buf, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal %T: %v", v, err)
	}
	return buf
}

// SignToken signs payload with key, using the key's alg and a typ=JWT
// protected header. The key's kid, if any, lands in the header.
func SignToken(t *testing.T, key jwk.Key, payload map[string]any) string {
	t.Helper()

	hdrs := jws.NewHeaders()
	_ = hdrs.Set(jws.TypeKey, "JWT")

	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(key.Algorithm().String()); err != nil {
		t.Fatalf("Key has no usable alg: %v", err)
	}

	signed, err := jws.Sign(MarshalJSON(t, payload), jws.WithKey(alg, key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return string(signed)
}

// TamperSignature returns token with the first signature character changed.
// A token without a signature is returned unchanged.
func TamperSignature(token string) string {
	i := strings.LastIndex(token, ".") + 1
	if i == len(token) {
		return token
	}
	replacement := "A"
	if token[i] == 'A' {
		replacement = "B"
	}
	return token[:i] + replacement + token[i+1:]
}
