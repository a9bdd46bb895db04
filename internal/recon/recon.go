// Package recon reconciles a freshly derived obligation list against the
// previously persisted set of locally materialized tasks.
//
// The engine owns the merge invariants:
//
//   - Task identity is content-addressed from (scope, title); re-running the
//     same derivation upserts instead of duplicating.
//   - Derivation is authoritative for set membership: tasks whose backing
//     obligation disappeared are dropped from the next set.
//   - Persistence is authoritative for mutable fields of retained members:
//     status and created_at belong to the task lifecycle and are never
//     overwritten by re-derivation; only title, due_date and updated_at
//     refresh.
//
// Reads fail open: a broken store yields an empty previous set rather than
// aborting reconciliation. Writes fail closed but still report the computed
// created/updated counts, so callers can distinguish "the merge produced N
// changes" from "but storing them failed".
//
// The read-modify-write cycle is not safe against concurrent writers to the
// same scope from separate processes: last write wins, no merge.
package recon

import (
	"time"

	"github.com/regloapp/reglo/internal/cadence"
	"github.com/regloapp/reglo/internal/identity"
	"github.com/regloapp/reglo/internal/storage"
)

// OriginTag marks locally materialized tasks, distinguishing them from
// server-sourced ones sharing the same store.
const OriginTag = "reglo_local"

// StatusOpen is the lifecycle status assigned to newly materialized tasks.
const StatusOpen = "open"

// untitled is substituted for obligations with a missing or empty title.
const untitled = "Untitled"

// Obligation is the minimal derived input the engine consumes: a
// descriptive title and a qualitative cadence descriptor.
type Obligation struct {
	Title   string
	Cadence string
}

// Task is the persisted record representing a recognized recurring
// obligation for one scope.
type Task struct {
	ID        string `json:"id"`
	Scope     string `json:"scope"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	DueDate   string `json:"due_date,omitempty"`
	Origin    string `json:"origin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Result reports one materialization pass. Created and Updated are counted
// even when persistence fails.
type Result struct {
	Created     int                 `json:"created"`
	Updated     int                 `json:"updated"`
	PersistedOK bool                `json:"persisted_ok"`
	Size        int                 `json:"size,omitempty"`
	Err         *storage.StoreError `json:"error,omitempty"`
}

// Clock supplies wall time for due dates and lifecycle stamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Engine performs reconciliation for any scope against one KV store.
type Engine struct {
	kv    *storage.Store
	clock Clock
}

// NewEngine creates an engine using the system clock.
func NewEngine(kv *storage.Store) *Engine {
	return &Engine{kv: kv, clock: systemClock{}}
}

// NewEngineWithClock creates an engine with an injected clock.
func NewEngineWithClock(kv *storage.Store, clock Clock) *Engine {
	return &Engine{kv: kv, clock: clock}
}

// Load returns the persisted materialized tasks for scope.
//
// Fail-open: read failures and undecodable documents yield an empty set.
// Records whose scope or origin tag does not match are filtered out - a
// foreign document under this key is "not found", not corruption.
func (e *Engine) Load(scope string) []Task {
	var raw []Task
	res := e.kv.ReadJSON(storage.TasksKey(scope), &raw)
	if !res.OK || !res.Found {
		return []Task{}
	}

	tasks := make([]Task, 0, len(raw))
	for _, t := range raw {
		if t.Scope == scope && t.Origin == OriginTag {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Materialize merges derived into the scope's persisted task set and
// stores the result as the full next set.
//
// Per-obligation, order-preserving:
//   - unknown ID: a new task is created with status "open".
//   - known ID: all previous fields carry forward except title, due_date
//     and updated_at, which refresh; Updated increments only when title or
//     due date actually changed.
//
// An empty derived list after a nonempty previous state wipes the scope's
// locally materialized tasks - that is the signal "no obligations
// currently apply here".
func (e *Engine) Materialize(scope string, derived []Obligation) Result {
	now := e.clock.Now()
	nowStamp := now.UTC().Format(time.RFC3339)

	prev := e.Load(scope)
	byID := make(map[string]Task, len(prev))
	for _, t := range prev {
		byID[t.ID] = t
	}

	var created, updated int
	next := make([]Task, 0, len(derived))

	for _, d := range derived {
		title := d.Title
		if title == "" {
			title = untitled
		}
		id := identity.TaskID(scope, title)
		due := cadence.DueDate(d.Cadence, now)

		prevTask, ok := byID[id]
		if !ok {
			created++
			next = append(next, Task{
				ID:        id,
				Scope:     scope,
				Title:     title,
				Status:    StatusOpen,
				DueDate:   due,
				Origin:    OriginTag,
				CreatedAt: nowStamp,
				UpdatedAt: nowStamp,
			})
			continue
		}

		if prevTask.Title != title || prevTask.DueDate != due {
			updated++
		}

		prevTask.Title = title
		prevTask.DueDate = due
		prevTask.UpdatedAt = nowStamp
		next = append(next, prevTask)
	}

	w := e.kv.WriteJSON(storage.TasksKey(scope), next)
	return Result{
		Created:     created,
		Updated:     updated,
		PersistedOK: w.OK,
		Size:        w.Size,
		Err:         w.Err,
	}
}

// Reset clears the scope's materialized task set. This is the only way
// tasks are deleted outside of set-membership reconciliation.
func (e *Engine) Reset(scope string) storage.WriteResult {
	return e.kv.WriteJSON(storage.TasksKey(scope), []Task{})
}
