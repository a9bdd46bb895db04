package storage

import "sync"

// Backend is the minimal raw KV surface the Store is built on.
//
// Implementations report failures as plain errors; the Store wraps them
// into tagged StoreErrors. Get reports (raw, found, err) - a missing key
// is not an error.
type Backend interface {
	Get(key string) (raw string, found bool, err error)
	Set(key, raw string) error
	Delete(key string) error
}

// Memory is an in-process Backend for tests and ephemeral runs.
// Safe for concurrent use.
type Memory struct {
	mu sync.Mutex
	m  map[string]string

	// FailSet, when non-nil, is returned from every Set call.
	// Lets tests exercise the storage_error path.
	FailSet error

	// FailGet, when non-nil, is returned from every Get call.
	FailGet error
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (b *Memory) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailGet != nil {
		return "", false, b.FailGet
	}
	raw, ok := b.m[key]
	return raw, ok, nil
}

func (b *Memory) Set(key, raw string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailSet != nil {
		return b.FailSet
	}
	b.m[key] = raw
	return nil
}

func (b *Memory) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, key)
	return nil
}
