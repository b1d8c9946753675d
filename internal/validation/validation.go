// Package validation provides structured validation error handling
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// Error represents a validation error with field-specific details
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors represents multiple validation errors
type Errors []Error

// Error implements the error interface
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	var messages []string
	for _, err := range ve {
		if err.Field != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
		} else {
			messages = append(messages, err.Message)
		}
	}

	return strings.Join(messages, "; ")
}

// Add adds a validation error
func (ve *Errors) Add(field, message string) {
	*ve = append(*ve, Error{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors
func (ve Errors) HasErrors() bool {
	return len(ve) > 0
}

// ValidateRequired checks if a value is not empty
func ValidateRequired(value string, fieldName string) *Error {
	if strings.TrimSpace(value) == "" {
		return &Error{
			Field:   fieldName,
			Message: "is required",
		}
	}
	return nil
}

// ValidateHTTPURL checks that value is an absolute http or https URL
func ValidateHTTPURL(value string, fieldName string) *Error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &Error{
			Field:   fieldName,
			Message: "must be an absolute http(s) URL",
		}
	}
	return nil
}

// ValidateExclusive fails when more than one of the named flags is set.
// The message lists every flag of the group.
func ValidateExclusive(set map[string]bool, flags ...string) *Error {
	count := 0
	for _, f := range flags {
		if set[f] {
			count++
		}
	}
	if count < 2 {
		return nil
	}

	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = "--" + f
	}
	return &Error{
		Message: fmt.Sprintf("The following options can not be used together (%s).", strings.Join(names, ", ")),
	}
}

// OneOf checks that value is one of the allowed values
func OneOf(value string, fieldName string, allowed ...string) *Error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &Error{
		Field:   fieldName,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	}
}

// DecodeValidation validates the options of a decode invocation
type DecodeValidation struct {
	PublicKeyPath   string
	OIDCProviderURL string
	Format          string
}

// Validate validates decode options
func (dv *DecodeValidation) Validate() error {
	var errors Errors

	if err := ValidateExclusive(map[string]bool{
		"public-key":        dv.PublicKeyPath != "",
		"oidc-provider-url": dv.OIDCProviderURL != "",
	}, "public-key", "oidc-provider-url"); err != nil {
		errors.Add(err.Field, err.Message)
	}

	if dv.OIDCProviderURL != "" {
		if err := ValidateHTTPURL(dv.OIDCProviderURL, "oidc-provider-url"); err != nil {
			errors.Add(err.Field, err.Message)
		}
	}

	if err := OneOf(dv.Format, "format", "pretty", "json"); err != nil {
		errors.Add(err.Field, err.Message)
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// TokenCreationValidation validates the options of create-token
type TokenCreationValidation struct {
	PrivateKeyPath string
	PayloadPath    string
}

// Validate validates create-token options
func (tv *TokenCreationValidation) Validate() error {
	var errors Errors

	if err := ValidateRequired(tv.PrivateKeyPath, "private-key"); err != nil {
		errors.Add(err.Field, err.Message)
	}
	if err := ValidateRequired(tv.PayloadPath, "payload"); err != nil {
		errors.Add(err.Field, err.Message)
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// FileSuffixValidation validates toolbox input file names
type FileSuffixValidation struct {
	Paths   []string
	Allowed []string
}

// Validate validates that every path ends in an allowed suffix
func (fv *FileSuffixValidation) Validate() error {
	var errors Errors

	for _, p := range fv.Paths {
		ok := false
		for _, suffix := range fv.Allowed {
			if strings.HasSuffix(p, suffix) {
				ok = true
				break
			}
		}
		if !ok {
			errors.Add("", fmt.Sprintf("Only %s files are supported.", strings.Join(trimDots(fv.Allowed), " and ")))
			break
		}
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

func trimDots(suffixes []string) []string {
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = strings.TrimPrefix(s, ".")
	}
	return out
}
