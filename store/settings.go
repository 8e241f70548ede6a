package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZaguanLabs/slugai"
)

// Settings is the administrator-edited part of the configuration.
type Settings struct {
	APIKey    string `json:"api_key"`
	MaxTokens int    `json:"max_tokens"`
}

// SettingsStore persists Settings as JSON under KeySettings.
type SettingsStore struct {
	kv KeyValueStore
}

// NewSettingsStore creates a SettingsStore over kv.
func NewSettingsStore(kv KeyValueStore) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Load returns the saved settings. ok is false when nothing was saved yet.
func (s *SettingsStore) Load(ctx context.Context) (Settings, bool, error) {
	raw, err := s.kv.Get(ctx, KeySettings)
	if errors.Is(err, ErrNotFound) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}

	var saved Settings
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return Settings{}, false, fmt.Errorf("decoding settings: %w", err)
	}
	return saved, true, nil
}

// Save merges submitted into the saved settings and stores the result.
// A masked API key keeps the saved key; a non-positive MaxTokens keeps the
// saved budget.
func (s *SettingsStore) Save(ctx context.Context, submitted Settings) (Settings, error) {
	current, _, err := s.Load(ctx)
	if err != nil {
		return Settings{}, err
	}

	next := Settings{
		APIKey:    slugai.MergeAPIKey(submitted.APIKey, current.APIKey),
		MaxTokens: submitted.MaxTokens,
	}
	if next.MaxTokens <= 0 {
		next.MaxTokens = current.MaxTokens
	}

	data, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.kv.Set(ctx, KeySettings, string(data)); err != nil {
		return Settings{}, err
	}
	return next, nil
}
