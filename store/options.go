package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/ZaguanLabs/slugai"
)

// Quota persists the proxy's last reported remaining count.
type Quota struct {
	kv KeyValueStore
}

// NewQuota creates a Quota over kv.
func NewQuota(kv KeyValueStore) *Quota {
	return &Quota{kv: kv}
}

// Remaining returns the last reported count. ok is false when the proxy never
// reported one or the stored value is not numeric.
func (q *Quota) Remaining(ctx context.Context) (int, bool, error) {
	raw, err := q.kv.Get(ctx, KeyQuotaRemaining)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// SetRemaining stores n, clamped at zero.
func (q *Quota) SetRemaining(ctx context.Context, n int) error {
	return q.kv.Set(ctx, KeyQuotaRemaining, strconv.Itoa(max(n, 0)))
}

// incrementer is implemented by stores with an atomic increment.
type incrementer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// SlugCounter counts generated slugs.
type SlugCounter struct {
	kv KeyValueStore
	mu sync.Mutex
}

// NewSlugCounter creates a SlugCounter over kv.
func NewSlugCounter(kv KeyValueStore) *SlugCounter {
	return &SlugCounter{kv: kv}
}

// Increment adds one to the counter and returns the new total.
func (c *SlugCounter) Increment(ctx context.Context) (int64, error) {
	if inc, ok := c.kv.(incrementer); ok {
		return inc.Incr(ctx, KeySlugCounter)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total, err := c.Total(ctx)
	if err != nil {
		return 0, err
	}
	total++
	if err := c.kv.Set(ctx, KeySlugCounter, strconv.FormatInt(total, 10)); err != nil {
		return 0, err
	}
	return total, nil
}

// Total returns the number of generated slugs.
func (c *SlugCounter) Total(ctx context.Context) (int64, error) {
	raw, err := c.kv.Get(ctx, KeySlugCounter)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	total, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, nil
	}
	return total, nil
}

var (
	_ slugai.QuotaState = (*Quota)(nil)
	_ slugai.Counter    = (*SlugCounter)(nil)
)
