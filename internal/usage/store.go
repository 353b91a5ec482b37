// Package usage keeps the local calculator usage counters and the language
// preference behind an injectable Store.
package usage

import (
	"context"
	"sync"
)

// Counter keys.
const (
	KeyTotalCalculations = "total_calculations"
	KeyFIPSuspicions     = "fip_suspicions"
	KeyLastScore         = "last_score"
)

// PrefLanguage is the preference key of the display language.
const PrefLanguage = "language"

// Store persists named integer counters and string preferences.
// Missing counters read as 0 and missing preferences as "".
type Store interface {
	Increment(ctx context.Context, key string, delta int64) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
	Set(ctx context.Context, key string, value int64) error
	// Reset clears all counters. Preferences are kept.
	Reset(ctx context.Context) error
	Preference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	Close() error
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu       sync.Mutex
	counters map[string]int64
	prefs    map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		counters: make(map[string]int64),
		prefs:    make(map[string]string),
	}
}

func (m *MemStore) Increment(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] += delta
	return m.counters[key], nil
}

func (m *MemStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[key], nil
}

func (m *MemStore) Set(_ context.Context, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] = value
	return nil
}

func (m *MemStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	return nil
}

func (m *MemStore) Preference(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs[key], nil
}

func (m *MemStore) SetPreference(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
	return nil
}

func (m *MemStore) Close() error { return nil }
