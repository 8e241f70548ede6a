package slugai

import (
	"context"
	"log/slog"
)

// Router picks the slug backend for each request.
type Router struct {
	direct DirectTranslator
	proxy  ProxyTranslator
	logger *slog.Logger
}

// RouterOption is a functional option for configuring the Router.
type RouterOption func(*Router)

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a Router over the direct and proxy backends.
func NewRouter(direct DirectTranslator, proxy ProxyTranslator, opts ...RouterOption) *Router {
	r := &Router{
		direct: direct,
		proxy:  proxy,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Route sends the request to the direct client when an API key is present and
// to the proxy otherwise.
func (r *Router) Route(ctx context.Context, req TranslationRequest) (string, error) {
	if req.APIKey != "" {
		r.logger.Debug("routing slug request", slog.String("backend", "openai"), slog.String("title", req.Title))
		return r.direct.TranslateDirect(ctx, req)
	}

	r.logger.Debug("routing slug request", slog.String("backend", "proxy"), slog.String("title", req.Title))
	return r.proxy.TranslateViaProxy(ctx, req)
}
