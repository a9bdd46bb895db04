// Package instances is the server-side store of realized process
// instances, backing the realize endpoint.
//
// The store is a single JSON file. Historical deployments wrote it in
// three shapes: a bare list, {"items": {processKey: instance}}, and
// {"instances": [instance]}. All three are accepted on read and
// normalized ONCE at this boundary to one canonical list; writes always
// emit the canonical list shape. Downstream code never sees the legacy
// shapes.
//
// Realization is idempotent on the process key "scope::taskKey": realizing
// an already-known key answers "exists" and leaves the stored instance
// untouched.
package instances

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Instance is one realized process record.
type Instance struct {
	InstanceID string `json:"instance_id"`
	ProcessKey string `json:"process_key"`
	Scope      string `json:"scope"`
	TaskKey    string `json:"taskKey"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// Outcome is the realize verdict: "created" for a fresh instance,
// "exists" when the process key was already known.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
)

// Clock supplies wall time for created_at stamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store is the file-backed instance store. Safe for concurrent use within
// one process; cross-process writers are not coordinated.
type Store struct {
	path  string
	mu    sync.Mutex
	clock Clock
}

// NewStore creates a store over the JSON file at path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path, clock: systemClock{}}
}

// NewStoreWithClock creates a store with an injected clock.
func NewStoreWithClock(path string, clock Clock) *Store {
	return &Store{path: path, clock: clock}
}

// ProcessKey builds the idempotency key for a (scope, taskKey) pair.
func ProcessKey(scope, taskKey string) string {
	return scope + "::" + taskKey
}

// legacyDoc matches the two dict-style historical file shapes.
type legacyDoc struct {
	Items     map[string]Instance `json:"items"`
	Instances []Instance          `json:"instances"`
}

// decode normalizes any accepted file shape to the canonical list.
// Unreadable or unrecognizable content degrades to an empty list - the
// store fails open like the rest of the persistence surface.
func decode(raw []byte) []Instance {
	if len(raw) == 0 {
		return []Instance{}
	}

	var list []Instance
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var doc legacyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []Instance{}
	}
	if doc.Items != nil {
		out := make([]Instance, 0, len(doc.Items))
		for key, inst := range doc.Items {
			if inst.ProcessKey == "" {
				inst.ProcessKey = key
			}
			out = append(out, inst)
		}
		return out
	}
	if doc.Instances != nil {
		return doc.Instances
	}
	return []Instance{}
}

// load reads and normalizes the store file.
func (s *Store) load() []Instance {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return []Instance{}
	}
	return decode(raw)
}

// save writes the canonical list atomically (temp file + rename), so a
// crash mid-write never leaves a truncated store behind.
func (s *Store) save(list []Instance) error {
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode instances: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write instances: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace instances: %w", err)
	}
	return nil
}

// Realize records the (scope, taskKey) pair as a process instance.
//
// Idempotent on the process key: a known key answers OutcomeExists with
// the stored instance; an unknown key mints a uuid instance ID, appends,
// persists, and answers OutcomeCreated.
func (s *Store) Realize(scope, taskKey string) (Outcome, Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ProcessKey(scope, taskKey)
	list := s.load()

	for _, inst := range list {
		if inst.ProcessKey == key {
			return OutcomeExists, inst, nil
		}
	}

	inst := Instance{
		InstanceID: uuid.NewString(),
		ProcessKey: key,
		Scope:      scope,
		TaskKey:    taskKey,
		Status:     "open",
		CreatedAt:  s.clock.Now().UTC().Format(time.RFC3339),
	}
	list = append(list, inst)

	if err := s.save(list); err != nil {
		return "", Instance{}, err
	}
	return OutcomeCreated, inst, nil
}

// List returns all stored instances in file order.
func (s *Store) List() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// ListByScope returns the scope's instances in file order.
func (s *Store) ListByScope(scope string) []Instance {
	out := []Instance{}
	for _, inst := range s.List() {
		if inst.Scope == scope {
			out = append(out, inst)
		}
	}
	return out
}
