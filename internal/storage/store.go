package storage

import (
	"encoding/json"
	"fmt"
)

// ReadResult reports the outcome of a typed read.
//
// OK means the surface itself worked; a missing key is OK with Found=false.
// A payload that exists but cannot be decoded degrades to Found=false with
// the serialization error attached, so callers can fail open to defaults
// without losing the diagnostic.
type ReadResult struct {
	OK    bool
	Found bool
	Err   *StoreError
}

// WriteResult reports the outcome of a typed write.
// Size is the serialized payload length in bytes, reported even on
// storage failure so callers can log what they attempted to persist.
type WriteResult struct {
	OK   bool
	Size int
	Err  *StoreError
}

// Store is the typed JSON layer over a raw Backend.
// All failures are returned as tagged results; Store never panics and
// never returns a bare error across this boundary.
type Store struct {
	backend Backend
}

// NewStore wraps a Backend. The store handle is passed through
// constructors - there is no process-wide singleton.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// ReadJSON loads and decodes the document at key into v.
//
//   - missing key: {OK:true, Found:false}
//   - backend failure: {OK:false} with a storage_error
//   - undecodable payload: {OK:false, Found:false} with a json_error;
//     v is left untouched, callers treat the document as absent
func (s *Store) ReadJSON(key string, v any) ReadResult {
	raw, found, err := s.backend.Get(key)
	if err != nil {
		return ReadResult{Err: &StoreError{Code: CodeStorage, Op: "read", Key: key, Err: err}}
	}
	if !found || raw == "" {
		return ReadResult{OK: true}
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return ReadResult{Err: &StoreError{Code: CodeSerialization, Op: "read", Key: key, Err: err}}
	}
	return ReadResult{OK: true, Found: true}
}

// WriteJSON encodes v and stores it at key, replacing any previous document.
func (s *Store) WriteJSON(key string, v any) WriteResult {
	raw, err := json.Marshal(v)
	if err != nil {
		return WriteResult{Err: &StoreError{Code: CodeSerialization, Op: "write", Key: key, Err: err}}
	}

	if err := s.backend.Set(key, string(raw)); err != nil {
		return WriteResult{Size: len(raw), Err: &StoreError{Code: CodeStorage, Op: "write", Key: key, Err: err}}
	}
	return WriteResult{OK: true, Size: len(raw)}
}

// Delete removes the document at key. Missing keys are not an error.
func (s *Store) Delete(key string) *StoreError {
	if err := s.backend.Delete(key); err != nil {
		return &StoreError{Code: CodeStorage, Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Namespaced persistence keys. The product/version segments are part of the
// wire contract: bumping the version orphans (not migrates) old documents.
const (
	product       = "reglo"
	schemaVersion = "v1"
)

// ProfileKey returns the per-scope client profile key.
func ProfileKey(scope string) string {
	return fmt.Sprintf("%s.%s.clientProfile.%s", product, schemaVersion, scope)
}

// TasksKey returns the per-scope materialized-tasks key.
func TasksKey(scope string) string {
	return fmt.Sprintf("%s.%s.materializedTasks.%s", product, schemaVersion, scope)
}

// IntentsKey returns the (scope-less) process-intent queue key.
// The queue holds all scopes in one document; entries carry their scope.
func IntentsKey() string {
	return fmt.Sprintf("%s.processIntents.%s", product, schemaVersion)
}
