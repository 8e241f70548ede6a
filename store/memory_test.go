package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := s.Get(ctx, "key1")
	if err != nil {
		t.Errorf("Get should succeed for existing key: %v", err)
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, err = s.Get(ctx, "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get should return ErrNotFound for missing key, got %v", err)
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Set(ctx, "key1", "value1")
	s.Set(ctx, "key1", "value2")

	val, _ := s.Get(ctx, "key1")
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Set(ctx, "key1", "value1")
	if err := s.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "key1"); err != nil {
		t.Errorf("Deleting a missing key should not fail: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty store, got %d options", s.Len())
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set(ctx, string(rune('a'+i%26)), "value")
		}(i)
		go func(i int) {
			defer wg.Done()
			s.Get(ctx, string(rune('a'+i%26)))
		}(i)
	}

	wg.Wait()
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Set(ctx, KeySettings, "{}")
	s.Set(ctx, KeyQuotaRemaining, "3")
	s.Set(ctx, KeySlugCounter, "9")
	NewErrorLog(s).Add(ctx, "boom", "title")
	s.Set(ctx, "unrelated", "keep")

	if err := Purge(ctx, s); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("Expected only the unrelated option to remain, got %d options", s.Len())
	}
	if val, _ := s.Get(ctx, "unrelated"); val != "keep" {
		t.Errorf("Purge removed an unrelated option")
	}
}
