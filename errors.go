package slugai

import (
	"errors"
	"fmt"
)

// Failure kinds. A failed translation always matches exactly one of these with errors.Is.
var (
	// ErrTransport indicates a network failure or timeout.
	ErrTransport = errors.New("transport error")
	// ErrEmptyResponse indicates the completion endpoint answered without usable content.
	ErrEmptyResponse = errors.New("empty response")
	// ErrQuotaExhausted indicates the proxy reported that the site's free quota is used up.
	ErrQuotaExhausted = errors.New("quota exhausted")
	// ErrMissingSlug indicates the proxy answered without a slug.
	ErrMissingSlug = errors.New("missing slug")
	// ErrEmptyTitle indicates there was no title to translate.
	ErrEmptyTitle = errors.New("empty title")
)

// ProviderError indicates a slug backend failure.
type ProviderError struct {
	Backend string // "openai" or "proxy"
	Kind    error  // One of the failure kinds above
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Backend, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Backend, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// StoreError indicates an option store failure.
type StoreError struct {
	Op    string // "get", "set" or "delete"
	Key   string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %q: %v", e.Op, e.Key, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
