package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/slugai"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ProxyTimeout bounds a single proxy call.
const ProxyTimeout = 15 * time.Second

// limitExceeded is the proxy's quota-exhaustion error string.
const limitExceeded = "Limit exceeded"

// ProxyProvider implements the proxy translator. The proxy meters free usage
// by site URL, so requests carry no credentials.
type ProxyProvider struct {
	endpoint string
	http     *resty.Client
	quota    slugai.QuotaState
	errorLog slugai.ErrorLog
	logger   *slog.Logger
}

// ProxyConfig holds configuration for the proxy provider.
type ProxyConfig struct {
	Endpoint   string            // Translate endpoint (default: slugai.DefaultProxyURL)
	Timeout    time.Duration     // Request timeout (default: 15s)
	HTTPClient *http.Client      // Custom HTTP client (optional)
	Quota      slugai.QuotaState // Receives the proxy's remaining count (optional)
	ErrorLog   slugai.ErrorLog   // Receives every translation failure (optional)
	Logger     *slog.Logger      // Diagnostics (optional)
}

// NewProxyProvider creates a new proxy provider.
func NewProxyProvider(cfg ProxyConfig) *ProxyProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = slugai.DefaultProxyURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = ProxyTimeout
	}

	var client *resty.Client
	if cfg.HTTPClient != nil {
		// SetTimeout writes to the http.Client, so work on a copy of the caller's
		hc := *cfg.HTTPClient
		client = resty.NewWithClient(&hc)
	} else {
		client = resty.New()
	}
	client.SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", slugai.UserAgent())

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ProxyProvider{
		endpoint: endpoint,
		http:     client,
		quota:    cfg.Quota,
		errorLog: cfg.ErrorLog,
		logger:   logger,
	}
}

// TranslateViaProxy asks the proxy for a slug and records the reported quota.
func (p *ProxyProvider) TranslateViaProxy(ctx context.Context, req slugai.TranslationRequest) (string, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"title":    req.Title,
			"site_url": req.SiteURL,
		}).
		Post(p.endpoint)
	if err != nil {
		return "", p.fail(ctx, req.Title, slugai.ErrTransport,
			fmt.Sprintf("Error contacting proxy server: %v", err), err)
	}

	body := resp.Body()

	if resp.StatusCode() == http.StatusTooManyRequests &&
		gjson.GetBytes(body, "error").String() == limitExceeded {
		p.setRemaining(ctx, 0)
		return "", p.fail(ctx, req.Title, slugai.ErrQuotaExhausted,
			"Translation skipped - free quota has been used up for this domain.", nil)
	}

	if remaining := gjson.GetBytes(body, "remaining"); remaining.Exists() && remaining.Type != gjson.Null {
		p.setRemaining(ctx, int(max(remaining.Int(), 0)))
	}

	raw := gjson.GetBytes(body, "slug").String()
	if strings.TrimSpace(raw) == "" {
		return "", p.fail(ctx, req.Title, slugai.ErrMissingSlug, "Proxy response did not include a slug.", nil)
	}

	slug := slugai.Sanitize(raw)
	if slug == "" {
		return "", p.fail(ctx, req.Title, slugai.ErrMissingSlug, "Proxy response did not include a slug.", nil)
	}

	p.logger.Debug("slug translated",
		slog.String("backend", "proxy"),
		slog.String("title", req.Title),
		slog.String("slug", slug),
	)
	return slug, nil
}

func (p *ProxyProvider) setRemaining(ctx context.Context, n int) {
	if p.quota == nil {
		return
	}
	if err := p.quota.SetRemaining(context.WithoutCancel(ctx), n); err != nil {
		p.logger.Warn("proxy quota update failed", slog.String("error", err.Error()))
	}
}

func (p *ProxyProvider) fail(ctx context.Context, title string, kind error, message string, cause error) error {
	if p.errorLog != nil {
		if err := p.errorLog.Add(context.WithoutCancel(ctx), message, title); err != nil {
			p.logger.Warn("error log write failed", slog.String("error", err.Error()))
		}
	}

	p.logger.Warn("slug translation failed",
		slog.String("backend", "proxy"),
		slog.String("title", title),
		slog.String("reason", message),
	)

	return &slugai.ProviderError{
		Backend: "proxy",
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Verify ProxyProvider implements ProxyTranslator
var _ slugai.ProxyTranslator = (*ProxyProvider)(nil)
