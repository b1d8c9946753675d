package config

import "testing"

func TestToSnakeCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"LogLevel", "log_level"},
		{"OutputFormat", "output_format"},
		{"HTTPTimeout", "http_timeout"},
		{"HTTPRetries", "http_retries"},
		{"OIDCProviderURL", "oidc_provider_url"},
		{"KeyID", "key_id"},
		{"JWKS", "jwks"},
	}

	for _, c := range cases {
		got := toSnakeCase(c.in)
		if got != c.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
