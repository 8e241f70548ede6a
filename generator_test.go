package slugai

import (
	"context"
	"errors"
	"testing"
)

type logRecord struct {
	message string
	title   string
}

type fakeErrorLog struct {
	records []logRecord
}

func (f *fakeErrorLog) Add(ctx context.Context, message, title string) error {
	f.records = append(f.records, logRecord{message, title})
	return nil
}

type fakeCounter struct {
	total int64
	err   error
}

func (f *fakeCounter) Increment(ctx context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.total++
	return f.total, nil
}

func takenSlugs(slugs ...string) ExistsFunc {
	taken := make(map[string]bool)
	for _, s := range slugs {
		taken[s] = true
	}
	return func(ctx context.Context, slug string) (bool, error) {
		return taken[slug], nil
	}
}

func TestGenerator_Generate(t *testing.T) {
	b := &fakeBackend{slug: "hello-world"}
	log := &fakeErrorLog{}
	counter := &fakeCounter{}

	cfg := DefaultConfig()
	cfg.SiteURL = "https://example.com"
	g := NewGenerator(NewRouter(b, b), cfg, WithErrorLog(log), WithCounter(counter))

	slug, err := g.Generate(context.Background(), "  Bonjour le monde ")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if slug != "hello-world" {
		t.Errorf("Expected 'hello-world', got %q", slug)
	}

	if b.proxyCalls != 1 {
		t.Errorf("Expected proxy path without an API key, got %d proxy calls", b.proxyCalls)
	}
	if b.last.Title != "Bonjour le monde" || b.last.MaxTokens != DefaultMaxTokens || b.last.SiteURL != "https://example.com" {
		t.Errorf("Unexpected request: %+v", b.last)
	}
	if counter.total != 1 {
		t.Errorf("Expected counter 1, got %d", counter.total)
	}
	if len(log.records) != 0 {
		t.Errorf("Expected no log records, got %+v", log.records)
	}
}

func TestGenerator_EmptyTitle(t *testing.T) {
	b := &fakeBackend{slug: "x"}
	log := &fakeErrorLog{}
	g := NewGenerator(NewRouter(b, b), DefaultConfig(), WithErrorLog(log))

	_, err := g.Generate(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Expected ErrEmptyTitle, got %v", err)
	}

	if b.directCalls+b.proxyCalls != 0 {
		t.Error("Empty titles must not reach a backend")
	}
	if len(log.records) != 1 || log.records[0].title != UnknownTitle {
		t.Errorf("Expected one record under %q, got %+v", UnknownTitle, log.records)
	}
}

func TestGenerator_Failure(t *testing.T) {
	b := &fakeBackend{err: &ProviderError{Backend: "openai", Kind: ErrEmptyResponse, Message: "no content"}}
	log := &fakeErrorLog{}
	counter := &fakeCounter{}

	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	g := NewGenerator(NewRouter(b, b), cfg, WithErrorLog(log), WithCounter(counter))

	_, err := g.Generate(context.Background(), "Titre")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Expected ErrEmptyResponse, got %v", err)
	}

	if b.directCalls != 1 {
		t.Errorf("Expected direct path with an API key, got %d direct calls", b.directCalls)
	}
	if counter.total != 0 {
		t.Error("Failures must not be counted")
	}
	if len(log.records) != 1 || log.records[0].message != msgGenerateFailure || log.records[0].title != "Titre" {
		t.Errorf("Unexpected log records: %+v", log.records)
	}
}

func TestGenerator_UniqueSlug(t *testing.T) {
	b := &fakeBackend{slug: "news"}
	g := NewGenerator(NewRouter(b, b), DefaultConfig(), WithExists(takenSlugs("news", "news-1")))

	slug, err := g.Generate(context.Background(), "Nouvelles")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if slug != "news-2" {
		t.Errorf("Expected 'news-2', got %q", slug)
	}
}

func TestGenerator_CounterFailureIsNotFatal(t *testing.T) {
	b := &fakeBackend{slug: "ok"}
	g := NewGenerator(NewRouter(b, b), DefaultConfig(), WithCounter(&fakeCounter{err: errors.New("store down")}))

	if slug, err := g.Generate(context.Background(), "Titre"); err != nil || slug != "ok" {
		t.Errorf("Expected 'ok', got %q (err=%v)", slug, err)
	}
}

func TestEnsureUnique(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		want  string
	}{
		{"free", nil, "hello"},
		{"taken once", []string{"hello"}, "hello-1"},
		{"taken thrice", []string{"hello", "hello-1", "hello-2"}, "hello-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnsureUnique(context.Background(), "hello", takenSlugs(tt.taken...))
			if err != nil {
				t.Fatalf("EnsureUnique failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("EnsureUnique() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureUnique_Error(t *testing.T) {
	want := errors.New("lookup failed")
	_, err := EnsureUnique(context.Background(), "hello", func(ctx context.Context, slug string) (bool, error) {
		return false, want
	})
	if !errors.Is(err, want) {
		t.Errorf("Expected lookup error, got %v", err)
	}
}
