package slugai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Error log messages written by the Generator.
const (
	UnknownTitle       = "Unknown Title"
	msgEmptyTitle      = "Title is empty or missing."
	msgGenerateFailure = "Failed to generate a valid slug."
)

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator runs the content-creation flow: it guards against empty titles,
// routes the request, makes the slug unique and counts successes.
type Generator struct {
	router   *Router
	cfg      Config
	errorLog ErrorLog
	counter  Counter
	exists   ExistsFunc
	logger   *slog.Logger
}

// GeneratorOption is a functional option for configuring the Generator.
type GeneratorOption func(*Generator)

// WithErrorLog sets the log that receives generation failures.
func WithErrorLog(log ErrorLog) GeneratorOption {
	return func(g *Generator) {
		g.errorLog = log
	}
}

// WithCounter sets the counter incremented after each generated slug.
func WithCounter(c Counter) GeneratorOption {
	return func(g *Generator) {
		g.counter = c
	}
}

// WithExists sets the uniqueness check used to suffix taken slugs.
func WithExists(fn ExistsFunc) GeneratorOption {
	return func(g *Generator) {
		g.exists = fn
	}
}

// WithGeneratorLogger sets the structured logger used for diagnostics.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator that reads the API key, token budget and
// site identity from cfg.
func NewGenerator(router *Router, cfg Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		router: router,
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate produces a unique slug for title. On failure the caller keeps its
// own default slug.
func (g *Generator) Generate(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		g.record(ctx, msgEmptyTitle, UnknownTitle)
		return "", ErrEmptyTitle
	}

	slug, err := g.router.Route(ctx, g.cfg.Request(title))
	if err != nil {
		g.record(ctx, msgGenerateFailure, title)
		return "", err
	}

	if g.exists != nil {
		slug, err = EnsureUnique(ctx, slug, g.exists)
		if err != nil {
			return "", fmt.Errorf("ensuring unique slug: %w", err)
		}
	}

	if g.counter != nil {
		total, err := g.counter.Increment(ctx)
		if err != nil {
			g.logger.Warn("slug counter update failed", slog.String("error", err.Error()))
		} else {
			g.logger.Debug("slug generated", slog.String("slug", slug), slog.Int64("total", total))
		}
	}

	return slug, nil
}

func (g *Generator) record(ctx context.Context, message, title string) {
	if g.errorLog == nil {
		return
	}
	if err := g.errorLog.Add(ctx, message, title); err != nil {
		g.logger.Warn("error log write failed", slog.String("error", err.Error()))
	}
}

// EnsureUnique appends -1, -2, ... to slug until exists reports it free.
func EnsureUnique(ctx context.Context, slug string, exists ExistsFunc) (string, error) {
	candidate := slug
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
