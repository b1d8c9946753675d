// Package oidc resolves the JWKS endpoint of an OpenID Connect provider
// from its discovery document and fetches the key set it publishes.
package oidc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrschumacher/jwt-debugger/internal/keys"
	"github.com/jrschumacher/jwt-debugger/internal/logger"
)

const (
	// ConfigurationSuffix is the OpenID Connect discovery path.
	ConfigurationSuffix = "/.well-known/openid-configuration"
	// DirectJWKSSuffix is served as a JWKS by IdentityServer-style providers.
	DirectJWKSSuffix = ConfigurationSuffix + "/jwks"

	jwksURIField = "jwks_uri"
)

// Resolver performs discovery and JWKS requests. It holds no state between
// calls.
type Resolver struct {
	httpClient *http.Client
}

// NewResolver creates a resolver. A nil client selects a pooled client with
// a 10 second timeout.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = NewHTTPClient(10*time.Second, 0)
	}
	return &Resolver{httpClient: client}
}

// ConfigurationURL returns the discovery document URL for providerURL.
func ConfigurationURL(providerURL string) string {
	if strings.HasSuffix(providerURL, ConfigurationSuffix) {
		return providerURL
	}
	return strings.TrimSuffix(providerURL, "/") + ConfigurationSuffix
}

// ResolveJWKSURI returns the jwks_uri advertised by the provider. A URL that
// already points at a discovery-shaped JWKS path is returned unchanged
// without any request.
func (r *Resolver) ResolveJWKSURI(ctx context.Context, providerURL string) (string, error) {
	if strings.HasSuffix(providerURL, DirectJWKSSuffix) {
		logger.Debug("Provider URL is a JWKS endpoint", "url", providerURL)
		return providerURL, nil
	}

	configurationURL := ConfigurationURL(providerURL)
	body, err := r.get(ctx, configurationURL)
	if err != nil {
		return "", err
	}

	var configuration map[string]any
	if err := json.Unmarshal(body, &configuration); err != nil {
		return "", fmt.Errorf("%w: failed to decode configuration from %s: %w", ErrResolution, configurationURL, err)
	}

	raw := configuration[jwksURIField]
	if raw == nil {
		return "", &MissingFieldError{URL: configurationURL, Field: jwksURIField}
	}
	jwksURI, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s in %s is a %T, not a string", ErrResolution, jwksURIField, configurationURL, raw)
	}
	if jwksURI == "" {
		return "", &MissingFieldError{URL: configurationURL, Field: jwksURIField}
	}

	logger.Debug("Resolved JWKS endpoint", "configuration_url", configurationURL, "jwks_uri", jwksURI)
	return jwksURI, nil
}

// FetchKeySet downloads and parses the key set published at jwksURI.
func (r *Resolver) FetchKeySet(ctx context.Context, jwksURI string) (*keys.KeySet, error) {
	body, err := r.get(ctx, jwksURI)
	if err != nil {
		return nil, err
	}

	set, err := keys.LoadKeySet(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS from %s: %w", jwksURI, err)
	}

	logger.Debug("Fetched JWKS", "url", jwksURI, "keys", set.Len())
	return set, nil
}

func (r *Resolver) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &HTTPError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &HTTPError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return body, nil
}
