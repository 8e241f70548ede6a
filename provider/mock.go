package provider

import (
	"context"

	"github.com/ZaguanLabs/slugai"
)

// MockProvider is a mock slug backend for testing. It serves as the direct
// translator, the proxy translator and the key checker.
type MockProvider struct {
	Slugs       map[string]string   // Map of title to slug
	Err         error               // Returned by every translation when set
	KeyStatus   slugai.KeyStatus    // Returned by CheckKeyStatus (default: valid)
	DirectCalls int                 // Number of times TranslateDirect was called
	ProxyCalls  int                 // Number of times TranslateViaProxy was called
	LastRequest *TranslationRequest // Last request received
}

// NewMockProvider creates a new mock provider with default slugs.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Slugs: map[string]string{
			"Bonjour le monde": "hello-world",
			"Hola Mundo":       "hello-world",
			"Ma belle maison":  "my-beautiful-house",
		},
		KeyStatus: slugai.KeyValid,
	}
}

// TranslateDirect returns the mock slug for the title.
func (m *MockProvider) TranslateDirect(ctx context.Context, req TranslationRequest) (string, error) {
	m.DirectCalls++
	return m.translate(req)
}

// TranslateViaProxy returns the mock slug for the title.
func (m *MockProvider) TranslateViaProxy(ctx context.Context, req TranslationRequest) (string, error) {
	m.ProxyCalls++
	return m.translate(req)
}

// CheckKeyStatus returns the configured key status.
func (m *MockProvider) CheckKeyStatus(ctx context.Context, apiKey string) KeyStatus {
	if m.KeyStatus == "" {
		return slugai.KeyValid
	}
	return m.KeyStatus
}

func (m *MockProvider) translate(req TranslationRequest) (string, error) {
	m.LastRequest = &req
	if m.Err != nil {
		return "", m.Err
	}
	if slug, ok := m.Slugs[req.Title]; ok {
		return slug, nil
	}
	// Unknown titles fall back to the sanitized title
	return slugai.Sanitize(req.Title), nil
}

// Reset resets the call counts and last request.
func (m *MockProvider) Reset() {
	m.DirectCalls = 0
	m.ProxyCalls = 0
	m.LastRequest = nil
}

// Verify MockProvider implements the slugai interfaces
var (
	_ slugai.DirectTranslator = (*MockProvider)(nil)
	_ slugai.ProxyTranslator  = (*MockProvider)(nil)
	_ slugai.KeyChecker       = (*MockProvider)(nil)
)
