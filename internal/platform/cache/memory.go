package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memEntry struct {
	value   any
	expires time.Time // zero means no per-entry deadline
}

// Memory is an in-process Backend on top of an expirable LRU
// the LRU ttl bounds every entry; Set ttl can only shorten it
type Memory struct {
	lru *expirable.LRU[string, memEntry]
	now func() time.Time
}

// DefaultMemorySize caps the number of entries when size <= 0
const DefaultMemorySize = 4096

// NewMemory builds a memory backend holding up to size entries for at most maxTTL
// maxTTL <= 0 disables the LRU-wide expiry
func NewMemory(size int, maxTTL time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if maxTTL < 0 {
		maxTTL = 0
	}
	return &Memory{
		lru: expirable.NewLRU[string, memEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (m *Memory) lookup(key string) (memEntry, bool) {
	e, ok := m.lru.Get(key)
	if !ok {
		return memEntry{}, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return memEntry{}, false
	}
	return e, true
}

// Has implements Backend
func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.lookup(key)
	return ok, nil
}

// Get implements Backend
func (m *Memory) Get(_ context.Context, key string) (any, error) {
	e, ok := m.lookup(key)
	if !ok {
		return nil, nil
	}
	return e.value, nil
}

// Set implements Backend
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return true, nil
}

// Len returns the number of live entries
func (m *Memory) Len() int { return m.lru.Len() }
