package testutil

import (
	"io"
	"net/http"
	"sync"
	"testing"
)

const (
	configurationPath = "/.well-known/openid-configuration"
	jwksPath          = "/.well-known/jwks.json"
)

// OIDCProvider is a fake OpenID Connect provider serving a discovery
// document and a JWKS. It records every request path it receives.
type OIDCProvider struct {
	URL string

	mu            sync.Mutex
	requests      []string
	configuration string
	jwks          []byte
}

// NewOIDCProvider starts a provider whose discovery document points at its
// own JWKS endpoint, which serves jwks.
func NewOIDCProvider(t *testing.T, jwks []byte) *OIDCProvider {
	t.Helper()

	p := &OIDCProvider{jwks: jwks}
	mux := http.NewServeMux()
	mux.HandleFunc(configurationPath, p.ConfigurationHandler)
	mux.HandleFunc(jwksPath, p.JWKSHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		p.record(r)
		http.NotFound(w, r)
	})

	server := TestServer(t, mux)
	p.URL = server.URL
	p.configuration = `{"issuer":"` + p.URL + `","jwks_uri":"` + p.JWKSURI() + `"}`
	return p
}

// JWKSURI is the JWKS endpoint advertised in the discovery document.
func (p *OIDCProvider) JWKSURI() string {
	return p.URL + jwksPath
}

// SetConfiguration replaces the discovery document body.
func (p *OIDCProvider) SetConfiguration(body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configuration = body
}

// Requests returns the request paths received so far.
func (p *OIDCProvider) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

// ConfigurationHandler serves the discovery document.
func (p *OIDCProvider) ConfigurationHandler(w http.ResponseWriter, r *http.Request) {
	p.record(r)
	p.mu.Lock()
	body := p.configuration
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// JWKSHandler serves the key set.
func (p *OIDCProvider) JWKSHandler(w http.ResponseWriter, r *http.Request) {
	p.record(r)
	w.Header().Set("Content-Type", "application/json")
	w.Write(p.jwks)
}

func (p *OIDCProvider) record(r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, r.URL.Path)
}
