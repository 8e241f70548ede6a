package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/slugai"
	"github.com/sashabaranov/go-openai"
)

// Timeouts for calls to the completion endpoint.
const (
	DirectTimeout   = 20 * time.Second
	KeyCheckTimeout = 10 * time.Second
)

const promptTemplate = `Translate and simplify the following title to an English slug, limit to 1-4 words, lowercase and replace spaces with hyphens: "%s"`

// OpenAIProvider implements the direct translator and the key checker using OpenAI's API.
// The API key is supplied per call, so one provider serves every configured key.
type OpenAIProvider struct {
	baseURL         string
	model           string
	keyCheckModel   string
	httpClient      *http.Client
	timeout         time.Duration
	keyCheckTimeout time.Duration
	errorLog        slugai.ErrorLog
	logger          *slog.Logger
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	BaseURL         string          // Custom base URL (default: "https://api.openai.com/v1")
	Model           string          // Translation model (default: "gpt-4o-mini")
	KeyCheckModel   string          // Key probe model (default: "gpt-3.5-turbo")
	HTTPClient      *http.Client    // Custom HTTP client (optional)
	Timeout         time.Duration   // Translation timeout (default: 20s)
	KeyCheckTimeout time.Duration   // Key probe timeout (default: 10s)
	ErrorLog        slugai.ErrorLog // Receives every translation failure (optional)
	Logger          *slog.Logger    // Diagnostics (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = slugai.DefaultOpenAIBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = slugai.DefaultModel
	}

	keyCheckModel := cfg.KeyCheckModel
	if keyCheckModel == "" {
		keyCheckModel = slugai.DefaultKeyCheckModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DirectTimeout
	}

	keyCheckTimeout := cfg.KeyCheckTimeout
	if keyCheckTimeout <= 0 {
		keyCheckTimeout = KeyCheckTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &OpenAIProvider{
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           model,
		keyCheckModel:   keyCheckModel,
		httpClient:      cfg.HTTPClient,
		timeout:         timeout,
		keyCheckTimeout: keyCheckTimeout,
		errorLog:        cfg.ErrorLog,
		logger:          logger,
	}
}

func (p *OpenAIProvider) client(apiKey string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = p.baseURL
	if p.httpClient != nil {
		config.HTTPClient = p.httpClient
	}
	return openai.NewClientWithConfig(config)
}

// TranslateDirect asks the translation model for a slug and sanitizes the answer.
func (p *OpenAIProvider) TranslateDirect(ctx context.Context, req slugai.TranslationRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client(req.APIKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req.Title)},
		},
		MaxTokens: req.TokenBudget(),
	})
	if err != nil {
		if isTransportError(err) {
			return "", p.fail(ctx, req.Title, slugai.ErrTransport,
				fmt.Sprintf("Error communicating with OpenAI API: %v", err), err)
		}
		return "", p.fail(ctx, req.Title, slugai.ErrEmptyResponse, emptyResponseMessage(errorDetails(err)), err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", p.fail(ctx, req.Title, slugai.ErrEmptyResponse, emptyResponseMessage(responseDetails(resp)), nil)
	}

	slug := slugai.Sanitize(resp.Choices[0].Message.Content)
	if slug == "" {
		return "", p.fail(ctx, req.Title, slugai.ErrEmptyResponse, emptyResponseMessage(responseDetails(resp)), nil)
	}

	p.logger.Debug("slug translated",
		slog.String("backend", "openai"),
		slog.String("title", req.Title),
		slog.String("slug", slug),
	)
	return slug, nil
}

// CheckKeyStatus sends a one-token probe with apiKey and classifies the outcome.
func (p *OpenAIProvider) CheckKeyStatus(ctx context.Context, apiKey string) slugai.KeyStatus {
	ctx, cancel := context.WithTimeout(ctx, p.keyCheckTimeout)
	defer cancel()

	_, err := p.client(apiKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.keyCheckModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Hello"},
		},
		MaxTokens: 1,
	})

	status := classifyKeyError(err)
	p.logger.Debug("api key checked", slog.String("status", string(status)))
	return status
}

func classifyKeyError(err error) slugai.KeyStatus {
	if err == nil {
		return slugai.KeyValid
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests && apiErr.Code == "insufficient_quota" {
			return slugai.KeyInsufficientQuota
		}
		return slugai.KeyInvalid
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) || isTransportError(err) {
		return slugai.KeyInvalid
	}

	// A 2xx reply whose body did not decode still accepted the key
	return slugai.KeyValid
}

func (p *OpenAIProvider) fail(ctx context.Context, title string, kind error, message string, cause error) error {
	if p.errorLog != nil {
		if err := p.errorLog.Add(context.WithoutCancel(ctx), message, title); err != nil {
			p.logger.Warn("error log write failed", slog.String("error", err.Error()))
		}
	}

	p.logger.Warn("slug translation failed",
		slog.String("backend", "openai"),
		slog.String("title", title),
		slog.String("reason", message),
	)

	return &slugai.ProviderError{
		Backend: "openai",
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func buildPrompt(title string) string {
	return fmt.Sprintf(promptTemplate, title)
}

func emptyResponseMessage(details string) string {
	return "API response did not include a valid translation. Response details: " + details
}

// isTransportError reports whether err happened before an HTTP response arrived.
func isTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func errorDetails(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%d %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && len(reqErr.Body) > 0 {
		return fmt.Sprintf("%d %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	return err.Error()
}

func responseDetails(resp openai.ChatCompletionResponse) string {
	data, err := json.Marshal(resp.Choices)
	if err != nil {
		return "No response body."
	}
	return string(data)
}

// Verify OpenAIProvider implements the slugai interfaces
var (
	_ slugai.DirectTranslator = (*OpenAIProvider)(nil)
	_ slugai.KeyChecker       = (*OpenAIProvider)(nil)
)
