package slugai

import (
	"context"
	"slices"
	"time"
)

// DefaultMaxTokens is the response token cap used when a request does not set one.
const DefaultMaxTokens = 20

// TokenBudgets lists the response caps offered to site administrators.
var TokenBudgets = []int{5, 10, 20, 30, 40}

// ValidTokenBudget reports whether n is one of TokenBudgets.
func ValidTokenBudget(n int) bool {
	return slices.Contains(TokenBudgets, n)
}

// TranslationRequest holds everything needed to produce one slug.
type TranslationRequest struct {
	Title     string // Human-entered title, must not be empty
	APIKey    string // OpenAI API key; empty selects the proxy
	MaxTokens int    // Response token cap for the direct path (default: 20)
	SiteURL   string // Site identity, only sent to the proxy
}

// TokenBudget returns MaxTokens, or DefaultMaxTokens when it is not positive.
func (r TranslationRequest) TokenBudget() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// KeyStatus classifies an OpenAI API key.
type KeyStatus string

const (
	// KeyValid means the probe request succeeded.
	KeyValid KeyStatus = "valid"
	// KeyInsufficientQuota means the key is recognised but has no credit left.
	KeyInsufficientQuota KeyStatus = "insufficient_quota"
	// KeyInvalid covers every other outcome, including transport failures.
	KeyInvalid KeyStatus = "invalid"
)

// DirectTranslator produces a slug by calling the completion endpoint with the caller's key.
type DirectTranslator interface {
	TranslateDirect(ctx context.Context, req TranslationRequest) (string, error)
}

// ProxyTranslator produces a slug through the metered proxy service.
type ProxyTranslator interface {
	TranslateViaProxy(ctx context.Context, req TranslationRequest) (string, error)
}

// KeyChecker classifies an API key with a minimal probe request.
type KeyChecker interface {
	CheckKeyStatus(ctx context.Context, apiKey string) KeyStatus
}

// ErrorLog is the append-only log of failed slug generations shown to site administrators.
type ErrorLog interface {
	Add(ctx context.Context, message, title string) error
}

// QuotaState tracks the proxy's last reported number of remaining free translations.
type QuotaState interface {
	// Remaining returns the stored value; ok is false when no value was ever reported.
	Remaining(ctx context.Context) (n int, ok bool, err error)
	SetRemaining(ctx context.Context, n int) error
}

// Counter counts successfully generated slugs.
type Counter interface {
	Increment(ctx context.Context) (int64, error)
}

// LogEntry is a single error log record.
type LogEntry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Title   string    `json:"title"`
}
