package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	appErrors "github.com/noah-isme/edusphere-api/pkg/errors"
)

// Local is an in-process TTL-bounded LRU store used when Redis is not configured.
// Values are stored JSON encoded so callers observe the same copy semantics as Redis.
type Local struct {
	entries *lru.LRU[string, []byte]
}

// NewLocal builds a local store holding at most size entries for ttl each.
func NewLocal(size int, ttl time.Duration) *Local {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Local{entries: lru.NewLRU[string, []byte](size, nil, ttl)}
}

// Get decodes the cached value for key into dest.
func (l *Local) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := l.entries.Get(key)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key. The per-entry ttl is bounded by the store TTL.
func (l *Local) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	l.entries.Add(key, payload)
	return nil
}

// DeleteByPattern removes keys matching a glob pattern (Redis SCAN semantics for '*').
func (l *Local) DeleteByPattern(_ context.Context, pattern string) error {
	for _, key := range l.entries.Keys() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match pattern %s: %w", pattern, err)
		}
		if matched {
			l.entries.Remove(key)
		}
	}
	return nil
}

// Len reports the number of live entries.
func (l *Local) Len() int {
	return l.entries.Len()
}
