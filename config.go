package slugai

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Fixed endpoints and models.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultProxyURL      = "https://dev.ha-ayal.co.il/slug-translator/wp-json/ai-slug/v1/translate"
	// DefaultModel is used for slug translation.
	DefaultModel = "gpt-4o-mini"
	// DefaultKeyCheckModel is used for the one-token key probe.
	DefaultKeyCheckModel = "gpt-3.5-turbo"
)

// Config is the typed settings set, loaded once and injected into the components.
type Config struct {
	APIKey        string      `toml:"api_key"`         // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	MaxTokens     int         `toml:"max_tokens"`      // Response token cap (default: 20)
	SiteURL       string      `toml:"site_url"`        // Site identity sent to the proxy
	Model         string      `toml:"model"`           // Translation model (default: "gpt-4o-mini")
	KeyCheckModel string      `toml:"key_check_model"` // Key probe model (default: "gpt-3.5-turbo")
	OpenAIBaseURL string      `toml:"openai_base_url"` // Custom base URL (optional)
	ProxyURL      string      `toml:"proxy_url"`       // Proxy translate endpoint
	Store         StoreConfig `toml:"store"`
}

// StoreConfig selects the option store backend.
type StoreConfig struct {
	Driver    string `toml:"driver"`     // "memory", "redis" or "sqlite" (default: "memory")
	URL       string `toml:"url"`        // Redis connection URL
	Path      string `toml:"path"`       // SQLite database file
	KeyPrefix string `toml:"key_prefix"` // Redis key prefix (default: "slugai:")
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     DefaultMaxTokens,
		Model:         DefaultModel,
		KeyCheckModel: DefaultKeyCheckModel,
		OpenAIBaseURL: DefaultOpenAIBaseURL,
		ProxyURL:      DefaultProxyURL,
		Store: StoreConfig{
			Driver:    "memory",
			KeyPrefix: "slugai:",
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults, then applies environment
// overrides and validates the result. A missing file at path is not an error
// when path is empty.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		if err := DecodeConfig(f, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DecodeConfig decodes TOML from r into cfg. Keys absent from the document keep
// their current values.
func DecodeConfig(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r).DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("SLUGAI_SITE_URL"); v != "" {
		c.SiteURL = v
	}
}

func (c *Config) normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.SiteURL = strings.TrimSpace(c.SiteURL)
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))

	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.KeyCheckModel == "" {
		c.KeyCheckModel = DefaultKeyCheckModel
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = DefaultOpenAIBaseURL
	}
	if c.ProxyURL == "" {
		c.ProxyURL = DefaultProxyURL
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "slugai:"
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.MaxTokens < 0 {
		return &ConfigError{Field: "max_tokens", Message: "must be positive"}
	}
	switch c.Store.Driver {
	case "memory":
	case "redis":
		if c.Store.URL == "" {
			return &ConfigError{Field: "store.url", Message: "required for the redis driver"}
		}
	case "sqlite":
		if c.Store.Path == "" {
			return &ConfigError{Field: "store.path", Message: "required for the sqlite driver"}
		}
	default:
		return &ConfigError{Field: "store.driver", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}
	return nil
}

// Request builds the translation request for title from the configuration.
func (c *Config) Request(title string) TranslationRequest {
	return TranslationRequest{
		Title:     title,
		APIKey:    c.APIKey,
		MaxTokens: c.MaxTokens,
		SiteURL:   c.SiteURL,
	}
}

// MergeAPIKey returns the key to save from a settings form. A submitted value
// containing an asterisk is the masked rendering of the saved key and keeps it.
func MergeAPIKey(submitted, saved string) string {
	submitted = strings.TrimSpace(submitted)
	if strings.Contains(submitted, "*") {
		return saved
	}
	return submitted
}

// MaskAPIKey renders a key for display, keeping only its last four characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
