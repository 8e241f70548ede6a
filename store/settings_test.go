package store

import (
	"context"
	"testing"

	"github.com/ZaguanLabs/slugai"
)

func TestSettingsStore_LoadMissing(t *testing.T) {
	_, ok, err := NewSettingsStore(NewMemoryStore()).Load(context.Background())
	if ok || err != nil {
		t.Errorf("Expected nothing saved, got ok=%v err=%v", ok, err)
	}
}

func TestSettingsStore_Save(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsStore(NewMemoryStore())

	saved, err := s.Save(ctx, Settings{APIKey: "  sk-abcdef1234 ", MaxTokens: 30})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.APIKey != "sk-abcdef1234" || saved.MaxTokens != 30 {
		t.Errorf("Unexpected saved settings %+v", saved)
	}

	// Submitting the masked key back keeps the stored one
	saved, err = s.Save(ctx, Settings{APIKey: slugai.MaskAPIKey("sk-abcdef1234"), MaxTokens: 10})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.APIKey != "sk-abcdef1234" || saved.MaxTokens != 10 {
		t.Errorf("Masked key should keep the saved key, got %+v", saved)
	}

	loaded, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if loaded != saved {
		t.Errorf("Load() = %+v, want %+v", loaded, saved)
	}
}

func TestSettingsStore_SaveKeepsBudgetAndClearsKey(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsStore(NewMemoryStore())

	if _, err := s.Save(ctx, Settings{APIKey: "sk-old", MaxTokens: 40}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := s.Save(ctx, Settings{})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.APIKey != "" {
		t.Errorf("An empty key should clear the saved key, got %q", saved.APIKey)
	}
	if saved.MaxTokens != 40 {
		t.Errorf("Expected the saved budget to be kept, got %d", saved.MaxTokens)
	}
}

func TestSettingsStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	kv.Set(ctx, KeySettings, "{")

	if _, _, err := NewSettingsStore(kv).Load(ctx); err == nil {
		t.Error("Expected error for corrupt settings")
	}
}
