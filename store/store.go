// Package store provides the option store that persists proxy quota, the
// generated-slugs counter and the error log.
package store

import (
	"context"
	"errors"
)

// Option keys written by slugai.
const (
	KeyQuotaRemaining = "slugai_proxy_quota_remaining"
	KeyErrorLog       = "_slugai_error_log"
	KeySlugCounter    = "_slugai_generated_slugs_counter"
	KeySettings       = "slugai_settings"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("option not found")

// KeyValueStore is the persistent option store.
type KeyValueStore interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Purge deletes every option slugai writes.
func Purge(ctx context.Context, kv KeyValueStore) error {
	for _, key := range []string{KeySettings, KeyErrorLog, KeySlugCounter, KeyQuotaRemaining} {
		if err := kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
