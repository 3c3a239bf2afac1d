// Package cache stores computed cash-flow surfaces keyed by their request.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key derives a stable cache key from a canonical request encoding.
func Key(canonical []byte) string {
	return fmt.Sprintf("%s%016x", constants.CacheKeyPrefix, xxhash.Sum64(canonical))
}

type entry struct {
	value   []byte
	stored  time.Time
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Memory is an in-process Cache. Entries expire after ttl; a zero ttl keeps
// them until evicted. At most maxEntries are held, the oldest going first.
type Memory struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	data       map[string]entry
}

// NewMemory constructs an in-process cache. A non-positive maxEntries uses
// constants.DefaultCacheMaxEntries.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheMaxEntries
	}
	return &Memory{ttl: ttl, maxEntries: maxEntries, now: time.Now, data: make(map[string]entry)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := m.now()
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(now) {
		m.dropExpired(key, now)
		return nil, false, nil
	}
	return e.value, true, nil
}

// dropExpired deletes key only if the entry currently stored is expired, so a
// value written after the caller's read survives.
func (m *Memory) dropExpired(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.data[key]; ok && e.expired(now) {
		delete(m.data, key)
	}
}

// Set stores value under key, dropping expired entries and evicting the
// oldest entry when the cache is full.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	now := m.now()
	e := entry{value: append([]byte(nil), value...), stored: now}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		m.sweep(now)
		if len(m.data) >= m.maxEntries {
			m.evictOldest()
		}
	}
	m.data[key] = e
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// sweep must be called with mu held.
func (m *Memory) sweep(now time.Time) {
	for key, e := range m.data {
		if e.expired(now) {
			delete(m.data, key)
		}
	}
}

// evictOldest must be called with mu held.
func (m *Memory) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, e := range m.data {
		if !found || e.stored.Before(oldest) {
			oldestKey, oldest, found = key, e.stored, true
		}
	}
	if found {
		delete(m.data, oldestKey)
	}
}
