// Command slugai turns a title into a short English slug using AI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/slugai"
	"github.com/ZaguanLabs/slugai/provider"
	"github.com/ZaguanLabs/slugai/store"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

// Build-time variables (can be overridden with ldflags)
var (
	commit    = slugai.GitCommit
	branch    = slugai.GitBranch
	buildDate = slugai.BuildDate
	goVersion = slugai.GoVersion
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired components for one invocation.
type app struct {
	cfg      *slugai.Config
	kv       store.KeyValueStore
	errorLog *store.ErrorLog
	quota    *store.Quota
	counter  *store.SlugCounter
	settings *store.SettingsStore
	direct   *provider.OpenAIProvider
	proxy    *provider.ProxyProvider
	logger   *slog.Logger
	close    func() error
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("slugai", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	configPath := fs.String("config", "", "TOML config file")
	envFile := fs.String("env-file", "", "Load environment variables from a .env file")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env; empty uses the proxy)")
	siteURL := fs.String("site-url", "", "Site URL sent to the proxy (default: SLUGAI_SITE_URL env)")
	maxTokens := fs.Int("max-tokens", 0,
		fmt.Sprintf("Response token cap: %s (default %d)", budgetList(), slugai.DefaultMaxTokens))
	model := fs.String("model", "", "OpenAI model used for translation")
	baseURL := fs.String("openai-base-url", "", "OpenAI API base URL")
	proxyURL := fs.String("proxy-url", "", "Proxy translate endpoint")
	storeDriver := fs.String("store", "", "Option store: memory, redis or sqlite")
	storeURL := fs.String("store-url", "", "Redis URL for --store redis")
	storePath := fs.String("store-path", "", "Database file for --store sqlite")
	save := fs.Bool("save", false, "Save --api-key and --max-tokens to the option store, then check them")
	checkKey := fs.Bool("check-key", false, "Validate the configured API key and proxy quota")
	showQuota := fs.Bool("quota", false, "Show the remaining free proxy quota")
	showLog := fs.Bool("log", false, "Show the error log")
	clearLog := fs.Bool("clear-log", false, "Clear the error log")
	purge := fs.Bool("purge", false, "Delete every stored option")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	verbose := fs.Bool("verbose", false, "Log diagnostics to stderr")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", slugai.Name, slugai.FullVersion())
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if branch != "unknown" && branch != "" {
			fmt.Fprintf(stdout, "  branch:  %s\n", branch)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		if goVersion == "unknown" || goVersion == "" {
			goVersion = runtime.Version()
		}
		fmt.Fprintf(stdout, "  go:      %s\n", goVersion)
		return nil
	}

	if *envFile != "" {
		// An explicit env file wins over the inherited environment
		if err := godotenv.Overload(*envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	cfg, err := slugai.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over the file and environment
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
		switch f.Name {
		case "api-key":
			cfg.APIKey = strings.TrimSpace(*apiKey)
		case "site-url":
			cfg.SiteURL = *siteURL
		case "max-tokens":
			cfg.MaxTokens = *maxTokens
		case "model":
			cfg.Model = *model
		case "openai-base-url":
			cfg.OpenAIBaseURL = *baseURL
		case "proxy-url":
			cfg.ProxyURL = *proxyURL
		case "store":
			cfg.Store.Driver = strings.ToLower(*storeDriver)
		case "store-url":
			cfg.Store.URL = *storeURL
		case "store-path":
			cfg.Store.Path = *storePath
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	saved, hasSaved, err := a.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("reading saved settings: %w", err)
	}
	if hasSaved {
		applySettings(cfg, saved, set)
	}

	switch {
	case *save:
		submitted := store.Settings{APIKey: slugai.MaskAPIKey(saved.APIKey), MaxTokens: cfg.MaxTokens}
		if set["api-key"] {
			submitted.APIKey = *apiKey
		}
		return a.saveSettings(ctx, stdout, *jsonOutput, submitted)
	case *purge:
		if err := store.Purge(ctx, a.kv); err != nil {
			return fmt.Errorf("purging options: %w", err)
		}
		fmt.Fprintln(stdout, "All stored options deleted.")
		return nil
	case *clearLog:
		if err := a.errorLog.Clear(ctx); err != nil {
			return fmt.Errorf("clearing error log: %w", err)
		}
		fmt.Fprintln(stdout, "Error log cleared.")
		return nil
	case *showLog:
		return a.printLog(ctx, stdout, *jsonOutput)
	case *showQuota:
		return a.printQuota(ctx, stdout, *jsonOutput)
	case *checkKey:
		return a.printNotices(ctx, stdout, *jsonOutput)
	}

	title, err := readTitle(fs.Args(), stdin)
	if err != nil {
		return err
	}
	if title == "" {
		fs.Usage()
		return fmt.Errorf("a title is required")
	}

	return a.generate(ctx, title, stdout, *jsonOutput)
}

// applySettings fills in saved settings that the flags, environment and
// config file left unset.
func applySettings(cfg *slugai.Config, saved store.Settings, set map[string]bool) {
	if cfg.APIKey == "" && !set["api-key"] {
		cfg.APIKey = saved.APIKey
	}
	if saved.MaxTokens > 0 && !set["max-tokens"] && cfg.MaxTokens == slugai.DefaultMaxTokens {
		cfg.MaxTokens = saved.MaxTokens
	}
}

func budgetList() string {
	parts := make([]string, len(slugai.TokenBudgets))
	for i, n := range slugai.TokenBudgets {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// readTitle joins the positional arguments, or reads stdin when there are
// none and it is not a terminal.
func readTitle(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if stdin == nil || isTerminal(stdin) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newApp(ctx context.Context, cfg *slugai.Config, logger *slog.Logger) (*app, error) {
	kv, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	errorLog := store.NewErrorLog(kv)
	quota := store.NewQuota(kv)

	return &app{
		cfg:      cfg,
		kv:       kv,
		errorLog: errorLog,
		quota:    quota,
		counter:  store.NewSlugCounter(kv),
		settings: store.NewSettingsStore(kv),
		direct: provider.NewOpenAIProvider(provider.OpenAIConfig{
			BaseURL:       cfg.OpenAIBaseURL,
			Model:         cfg.Model,
			KeyCheckModel: cfg.KeyCheckModel,
			ErrorLog:      errorLog,
			Logger:        logger,
		}),
		proxy: provider.NewProxyProvider(provider.ProxyConfig{
			Endpoint: cfg.ProxyURL,
			Quota:    quota,
			ErrorLog: errorLog,
			Logger:   logger,
		}),
		logger: logger,
		close:  closeStore,
	}, nil
}

func openStore(ctx context.Context, cfg slugai.StoreConfig) (store.KeyValueStore, func() error, error) {
	switch cfg.Driver {
	case "redis":
		s, err := store.NewRedisStore(ctx, store.RedisConfig{URL: cfg.URL, KeyPrefix: cfg.KeyPrefix})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := store.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return store.NewMemoryStore(), func() error { return nil }, nil
	}
}

// JSONOutput represents the JSON output format for a generated slug.
type JSONOutput struct {
	Title     string `json:"title"`
	Slug      string `json:"slug,omitempty"`
	Backend   string `json:"backend"`
	Error     string `json:"error,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func (a *app) generate(ctx context.Context, title string, stdout io.Writer, jsonOut bool) error {
	backend := "proxy"
	if a.cfg.APIKey != "" {
		backend = "openai"
	}

	g := slugai.NewGenerator(slugai.NewRouter(a.direct, a.proxy, slugai.WithLogger(a.logger)), *a.cfg,
		slugai.WithErrorLog(a.errorLog),
		slugai.WithCounter(a.counter),
		slugai.WithGeneratorLogger(a.logger),
	)

	start := time.Now()
	slug, genErr := g.Generate(ctx, title)
	elapsed := time.Since(start)

	if jsonOut {
		out := JSONOutput{
			Title:     title,
			Slug:      slug,
			Backend:   backend,
			ElapsedMs: elapsed.Milliseconds(),
		}
		if genErr != nil {
			out.Error = genErr.Error()
		}
		if backend == "proxy" {
			if n, ok, err := a.quota.Remaining(ctx); err == nil && ok {
				out.Remaining = &n
			}
		}
		if err := writeJSON(stdout, out); err != nil {
			return err
		}
		if genErr != nil {
			return fmt.Errorf("generating slug: %w", genErr)
		}
		return nil
	}

	if genErr != nil {
		return fmt.Errorf("generating slug: %w", genErr)
	}

	fmt.Fprintln(stdout, slug)
	return nil
}

func (a *app) printLog(ctx context.Context, stdout io.Writer, jsonOut bool) error {
	entries, err := a.errorLog.Entries(ctx)
	if err != nil {
		return fmt.Errorf("reading error log: %w", err)
	}

	if jsonOut {
		if entries == nil {
			entries = []slugai.LogEntry{}
		}
		return writeJSON(stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No errors logged yet.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Time.Local().Format(time.DateTime), e.Title, e.Message})
	}
	fmt.Fprintln(stdout, renderTable([]string{"Time", "Title", "Message"}, rows))
	return nil
}

func (a *app) printQuota(ctx context.Context, stdout io.Writer, jsonOut bool) error {
	n, ok, err := a.quota.Remaining(ctx)
	if err != nil {
		return fmt.Errorf("reading quota: %w", err)
	}

	if jsonOut {
		out := struct {
			Remaining *int `json:"remaining"`
		}{}
		if ok {
			out.Remaining = &n
		}
		return writeJSON(stdout, out)
	}

	if !ok {
		fmt.Fprintln(stdout, "Remaining free translations: unknown")
		return nil
	}
	fmt.Fprintf(stdout, "Remaining free translations: %d\n", n)
	return nil
}

func (a *app) saveSettings(ctx context.Context, stdout io.Writer, jsonOut bool, submitted store.Settings) error {
	if !slugai.ValidTokenBudget(submitted.MaxTokens) {
		return &slugai.ConfigError{Field: "max_tokens", Message: "must be one of " + budgetList()}
	}

	saved, err := a.settings.Save(ctx, submitted)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	a.cfg.APIKey = saved.APIKey
	a.cfg.MaxTokens = saved.MaxTokens

	if !jsonOut {
		fmt.Fprintln(stdout, "Settings saved.")
	}
	return a.printNotices(ctx, stdout, jsonOut)
}

func (a *app) printNotices(ctx context.Context, stdout io.Writer, jsonOut bool) error {
	notices := slugai.CheckSettings(ctx, *a.cfg, a.direct, a.quota)

	if jsonOut {
		type notice struct {
			Code    string `json:"code"`
			Level   string `json:"level"`
			Message string `json:"message"`
		}
		out := make([]notice, len(notices))
		for i, n := range notices {
			out[i] = notice{Code: n.Code, Level: string(n.Level), Message: n.Message}
		}
		return writeJSON(stdout, out)
	}

	if a.cfg.APIKey != "" {
		fmt.Fprintf(stdout, "API key: %s\n", slugai.MaskAPIKey(a.cfg.APIKey))
	} else {
		fmt.Fprintln(stdout, "API key: not set, using the free proxy")
	}
	for _, n := range notices {
		fmt.Fprintf(stdout, "[%s] %s\n", n.Level, n.Message)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
