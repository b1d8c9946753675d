package keys_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jrschumacher/jwt-debugger/internal/keys"
	"github.com/jrschumacher/jwt-debugger/internal/testutil"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

func TestGenerateRSA(t *testing.T) {
	key, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}
	if key.JWK().Algorithm().String() != "RS256" {
		t.Errorf("expected alg RS256, got %s", key.JWK().Algorithm())
	}
	if key.JWK().KeyUsage() != "sig" {
		t.Errorf("expected use sig, got %q", key.JWK().KeyUsage())
	}
	if _, ok := key.JWK().(jwk.RSAPrivateKey); !ok {
		t.Errorf("expected RSA private key, got %T", key.JWK())
	}
}

func TestPEMRoundTrip(t *testing.T) {
	key, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}

	pemBytes, err := key.PEM()
	if err != nil {
		t.Fatalf("PEM failed: %v", err)
	}
	if !keys.IsPEM(pemBytes) {
		t.Fatalf("expected PEM output, got %q", pemBytes)
	}

	loaded, err := keys.LoadKey(pemBytes)
	if err != nil {
		t.Fatalf("LoadKey failed: %v", err)
	}
	if _, ok := loaded.JWK().(jwk.RSAPrivateKey); !ok {
		t.Errorf("expected RSA private key, got %T", loaded.JWK())
	}
}

func TestSignAndVerify(t *testing.T) {
	key, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}

	token, err := key.Sign([]byte(`{ "sub": "alice", "iat": 1516239022 }`))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact token, got %q", token)
	}

	pub, err := key.Public()
	if err != nil {
		t.Fatalf("Public failed: %v", err)
	}
	if _, ok := pub.JWK().(jwk.RSAPublicKey); !ok {
		t.Errorf("expected RSA public key, got %T", pub.JWK())
	}
	if err := pub.Verify([]byte(token), "RS256", ""); err != nil {
		t.Errorf("expected signed token to verify, got %v", err)
	}
}

func TestSignErrors(t *testing.T) {
	key, err := keys.LoadKey(testutil.PublicPEM(t, testutil.RSAKey(t, "")))
	if err != nil {
		t.Fatalf("LoadKey failed: %v", err)
	}
	if _, err := key.Sign([]byte(`{}`)); !errors.Is(err, keys.ErrMissingAlgorithm) {
		t.Errorf("expected ErrMissingAlgorithm, got %v", err)
	}

	signer, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}
	for _, payload := range []string{"", "[1]", "null", "{"} {
		if _, err := signer.Sign([]byte(payload)); err == nil {
			t.Errorf("%q: expected payload error", payload)
		}
	}
}

func TestKeySetToolbox(t *testing.T) {
	one, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}
	two, err := keys.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA failed: %v", err)
	}

	kid1, err := one.AssignKeyID()
	if err != nil {
		t.Fatalf("AssignKeyID failed: %v", err)
	}
	kid2, err := two.AssignKeyID()
	if err != nil {
		t.Fatalf("AssignKeyID failed: %v", err)
	}
	if kid1 == kid2 || len(kid1) != 36 {
		t.Errorf("expected distinct UUID kids, got %q and %q", kid1, kid2)
	}

	set, err := keys.NewKeySetOf(one, two)
	if err != nil {
		t.Fatalf("NewKeySetOf failed: %v", err)
	}
	pub, err := set.Public()
	if err != nil {
		t.Fatalf("Public failed: %v", err)
	}
	if pub.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", pub.Len())
	}
	k, _ := pub.Set().Key(0)
	if _, ok := k.(jwk.RSAPublicKey); !ok || k.KeyID() != kid1 {
		t.Errorf("expected public key %s first, got %T %s", kid1, k, k.KeyID())
	}

	token, err := two.Sign([]byte(`{"sub":"bob"}`))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if err := pub.Verify([]byte(token), "RS256", kid2); err != nil {
		t.Errorf("expected key set to verify, got %v", err)
	}
}
