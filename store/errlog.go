package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZaguanLabs/slugai"
	"github.com/google/uuid"
)

// MaxLogEntries is the number of entries the error log keeps.
const MaxLogEntries = 100

// ErrorLog is the administrator-facing log of failed slug generations,
// stored as a JSON array under KeyErrorLog with the newest entry first.
type ErrorLog struct {
	kv  KeyValueStore
	mu  sync.Mutex
	now func() time.Time
}

// NewErrorLog creates an ErrorLog over kv.
func NewErrorLog(kv KeyValueStore) *ErrorLog {
	return &ErrorLog{kv: kv, now: time.Now}
}

// Add prepends an entry and drops the oldest ones beyond MaxLogEntries.
func (l *ErrorLog) Add(ctx context.Context, message, title string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.Entries(ctx)
	if err != nil {
		return err
	}

	entry := slugai.LogEntry{
		ID:      uuid.NewString(),
		Time:    l.now().UTC(),
		Message: message,
		Title:   title,
	}
	entries = append([]slugai.LogEntry{entry}, entries...)
	if len(entries) > MaxLogEntries {
		entries = entries[:MaxLogEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding error log: %w", err)
	}
	return l.kv.Set(ctx, KeyErrorLog, string(data))
}

// Entries returns the log, newest first.
func (l *ErrorLog) Entries(ctx context.Context) ([]slugai.LogEntry, error) {
	raw, err := l.kv.Get(ctx, KeyErrorLog)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []slugai.LogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decoding error log: %w", err)
	}
	return entries, nil
}

// Clear removes every entry.
func (l *ErrorLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kv.Delete(ctx, KeyErrorLog)
}

// Verify ErrorLog implements slugai.ErrorLog
var _ slugai.ErrorLog = (*ErrorLog)(nil)
