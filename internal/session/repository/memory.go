package repository

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	updatedAt time.Time
}

// MemoryRepository is an in-memory Repository. State is lost when the process exits.
type MemoryRepository struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the value for key if present.
func (r *MemoryRepository) Get(ctx context.Context, key string) (string, time.Time, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[key]
	if !ok {
		return "", time.Time{}, false, nil
	}
	return e.value, e.updatedAt, true, nil
}

// Set stores value under key.
func (r *MemoryRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = entry{value: value, updatedAt: r.nowF()}
	return nil
}

// Delete removes keys.
func (r *MemoryRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.m, k)
	}
	return nil
}
