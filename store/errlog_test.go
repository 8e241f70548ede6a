package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestErrorLog_AddNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewErrorLog(NewMemoryStore())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return fixed }

	if err := log.Add(ctx, "Proxy response did not include a slug.", "Bonjour"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := log.Add(ctx, "Error contacting proxy server: timeout", "Salut"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Salut" || entries[1].Title != "Bonjour" {
		t.Errorf("Expected newest first, got %+v", entries)
	}
	if !entries[0].Time.Equal(fixed) {
		t.Errorf("Expected time %v, got %v", fixed, entries[0].Time)
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Errorf("Entries need distinct IDs, got %q and %q", entries[0].ID, entries[1].ID)
	}
}

func TestErrorLog_Capped(t *testing.T) {
	ctx := context.Background()
	log := NewErrorLog(NewMemoryStore())

	for i := 0; i < MaxLogEntries+5; i++ {
		log.Add(ctx, fmt.Sprintf("failure %d", i), "title")
	}

	entries, _ := log.Entries(ctx)
	if len(entries) != MaxLogEntries {
		t.Fatalf("Expected %d entries, got %d", MaxLogEntries, len(entries))
	}
	if entries[0].Message != fmt.Sprintf("failure %d", MaxLogEntries+4) {
		t.Errorf("Expected newest entry first, got %q", entries[0].Message)
	}
	if entries[MaxLogEntries-1].Message != "failure 5" {
		t.Errorf("Expected oldest entries dropped, last is %q", entries[MaxLogEntries-1].Message)
	}
}

func TestErrorLog_Clear(t *testing.T) {
	ctx := context.Background()
	log := NewErrorLog(NewMemoryStore())

	log.Add(ctx, "boom", "title")
	if err := log.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty log, got %d entries", len(entries))
	}
}

func TestErrorLog_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	kv.Set(ctx, KeyErrorLog, "not json")

	if _, err := NewErrorLog(kv).Entries(ctx); err == nil {
		t.Error("Expected error for a corrupt log value")
	}
}
