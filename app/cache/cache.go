// Package cache keeps one computed result per calendar day and variant.
package cache

import (
	"slices"
	"strings"
	"sync"
)

const translatedSuffix = "_translated"

// Key returns the cache key for date ("YYYY-MM-DD") and the translation flag.
func Key(date string, translated bool) string {
	if translated {
		return date + translatedSuffix
	}
	return date
}

// DateOf returns the date component of key.
func DateOf(key string) string {
	date, _, _ := strings.Cut(key, "_")
	return date
}

// Cache is a process-local key/value store. Stored values are never modified
// by the cache; callers that need to change a returned value work on a copy.
type Cache[V any] struct {
	entries map[string]V
	mu      sync.RWMutex
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]V),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// ClearStale removes every key whose date component sorts before
// currentDate and returns how many were removed.
func (c *Cache[V]) ClearStale(currentDate string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if DateOf(key) < currentDate {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Keys returns the stored keys in sorted order.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
