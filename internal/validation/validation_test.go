package validation

import (
	"errors"
	"testing"
)

func TestDecodeValidation(t *testing.T) {
	cases := []struct {
		name    string
		in      DecodeValidation
		wantErr string
	}{
		{"no key source", DecodeValidation{Format: "pretty"}, ""},
		{"with key", DecodeValidation{PublicKeyPath: "key.pem", Format: "json"}, ""},
		{"with provider", DecodeValidation{OIDCProviderURL: "https://accounts.google.com", Format: "pretty"}, ""},
		{
			"both key sources",
			DecodeValidation{PublicKeyPath: "key.pem", OIDCProviderURL: "https://example.com", Format: "pretty"},
			"The following options can not be used together (--public-key, --oidc-provider-url).",
		},
		{"bad provider", DecodeValidation{OIDCProviderURL: "example.com", Format: "pretty"}, "oidc-provider-url: must be an absolute http(s) URL"},
		{"bad format", DecodeValidation{Format: "yaml"}, "format: must be one of pretty, json"},
	}

	for _, c := range cases {
		err := c.in.Validate()
		if c.wantErr == "" {
			if err != nil {
				t.Errorf("%s: unexpected error %v", c.name, err)
			}
			continue
		}
		var ve Errors
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected validation Errors, got %v", c.name, err)
			continue
		}
		if err.Error() != c.wantErr {
			t.Errorf("%s: expected %q, got %q", c.name, c.wantErr, err.Error())
		}
	}
}

func TestTokenCreationValidation(t *testing.T) {
	ok := &TokenCreationValidation{PrivateKeyPath: "key.json", PayloadPath: "payload.json"}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}

	missing := &TokenCreationValidation{PayloadPath: " "}
	err := missing.Validate()
	if err == nil || err.Error() != "private-key: is required; payload: is required" {
		t.Errorf("expected required errors, got %v", err)
	}
}

func TestFileSuffixValidation(t *testing.T) {
	ok := &FileSuffixValidation{Paths: []string{"a.json", "b.pem"}, Allowed: []string{".json", ".pem"}}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error %v", err)
	}

	bad := &FileSuffixValidation{Paths: []string{"a.json", "b.txt"}, Allowed: []string{".json", ".pem"}}
	err := bad.Validate()
	if err == nil || err.Error() != "Only json and pem files are supported." {
		t.Errorf("expected suffix error, got %v", err)
	}
}

func TestErrorsFormatting(t *testing.T) {
	var ve Errors
	if ve.Error() != "validation failed" {
		t.Errorf("unexpected empty message %q", ve.Error())
	}
	ve.Add("a", "is bad")
	ve.Add("", "global problem")
	if ve.Error() != "a: is bad; global problem" {
		t.Errorf("unexpected message %q", ve.Error())
	}
}
