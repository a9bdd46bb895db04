// Package intents maintains the durable, deduplicated queue of pending
// "realize this task remotely" requests.
//
// The queue is a persisted set keyed by (scope, taskKey): duplicate adds
// are no-ops. Every mutation is a whole-queue read-modify-write against the
// KV surface followed by a change broadcast, so other observers of the same
// queue can refresh. The read-modify-write is not safe against concurrent
// writers from separate processes - last write wins, no merge of concurrent
// queue mutations.
//
// Realization is at-least-once from the caller's perspective: an intent is
// removed only after the remote confirms, and a failed intent stays queued
// for retry. RealizeAll is the deliberate exception - see its doc.
package intents

import (
	"context"
	"strings"

	"github.com/regloapp/reglo/internal/storage"
)

// Intent is one pending request to push a locally known task to the remote
// system of record.
type Intent struct {
	Scope   string `json:"scope"`
	TaskKey string `json:"taskKey"`
}

// key returns the set key for deduplication.
func (i Intent) key() string {
	return i.Scope + "::" + i.TaskKey
}

// RealizeOutcome pairs an intent with its RealizeAll result.
type RealizeOutcome struct {
	Intent Intent        `json:"intent"`
	Status RealizeStatus `json:"status,omitempty"`
	Err    error         `json:"-"`
}

// Queue is the durable intent set plus its collaborators.
type Queue struct {
	kv       *storage.Store
	realizer Realizer
	notifier *Broadcaster
}

// NewQueue creates a queue over kv with the given realizer.
// A nil realizer is valid for callers that only mutate the set.
func NewQueue(kv *storage.Store, realizer Realizer) *Queue {
	return &Queue{
		kv:       kv,
		realizer: realizer,
		notifier: NewBroadcaster(),
	}
}

// Notifier exposes the change broadcaster for subscription.
func (q *Queue) Notifier() *Broadcaster {
	return q.notifier
}

// normalize trims an intent's fields and reports whether it is usable.
func normalize(scope, taskKey string) (Intent, bool) {
	i := Intent{Scope: strings.TrimSpace(scope), TaskKey: strings.TrimSpace(taskKey)}
	return i, i.Scope != "" && i.TaskKey != ""
}

// load reads the full queue. Fail-open: unreadable documents yield an
// empty queue. Entries with blank fields are dropped during decode.
func (q *Queue) load() []Intent {
	var raw []Intent
	res := q.kv.ReadJSON(storage.IntentsKey(), &raw)
	if !res.OK || !res.Found {
		return []Intent{}
	}

	items := make([]Intent, 0, len(raw))
	for _, it := range raw {
		if n, ok := normalize(it.Scope, it.TaskKey); ok {
			items = append(items, n)
		}
	}
	return items
}

// save writes the full queue back and broadcasts on success.
func (q *Queue) save(items []Intent) storage.WriteResult {
	res := q.kv.WriteJSON(storage.IntentsKey(), items)
	if res.OK {
		q.notifier.Broadcast()
	}
	return res
}

// Add queues an intent. Idempotent: adding an already-present pair is a
// no-op and does not broadcast.
func (q *Queue) Add(scope, taskKey string) error {
	intent, ok := normalize(scope, taskKey)
	if !ok {
		return ErrInvalidIntent
	}

	items := q.load()
	for _, it := range items {
		if it.key() == intent.key() {
			return nil
		}
	}

	if res := q.save(append(items, intent)); res.Err != nil {
		return res.Err
	}
	return nil
}

// Remove deletes an intent. Removing an absent pair is a no-op.
func (q *Queue) Remove(scope, taskKey string) error {
	intent, ok := normalize(scope, taskKey)
	if !ok {
		return ErrInvalidIntent
	}

	items := q.load()
	next := make([]Intent, 0, len(items))
	removed := false
	for _, it := range items {
		if it.key() == intent.key() {
			removed = true
			continue
		}
		next = append(next, it)
	}
	if !removed {
		return nil
	}

	if res := q.save(next); res.Err != nil {
		return res.Err
	}
	return nil
}

// Has reports whether the pair is queued.
func (q *Queue) Has(scope, taskKey string) bool {
	intent, ok := normalize(scope, taskKey)
	if !ok {
		return false
	}
	for _, it := range q.load() {
		if it.key() == intent.key() {
			return true
		}
	}
	return false
}

// ListByScope returns the scope's intents in queue order.
func (q *Queue) ListByScope(scope string) []Intent {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return []Intent{}
	}

	out := []Intent{}
	for _, it := range q.load() {
		if it.Scope == scope {
			out = append(out, it)
		}
	}
	return out
}

// Count returns the number of queued intents, scoped when scope is
// non-empty, global otherwise.
func (q *Queue) Count(scope string) int {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return len(q.load())
	}
	return len(q.ListByScope(scope))
}

// Clear drops the scope's intents, or the whole queue when scope is empty.
func (q *Queue) Clear(scope string) error {
	scope = strings.TrimSpace(scope)

	var next []Intent
	if scope == "" {
		next = []Intent{}
	} else {
		next = []Intent{}
		for _, it := range q.load() {
			if it.Scope != scope {
				next = append(next, it)
			}
		}
	}

	if res := q.save(next); res.Err != nil {
		return res.Err
	}
	return nil
}

// Realize pushes one intent to the remote system.
//
// Exactly one remote call is made. On success the intent is removed from
// the queue and the remote-reported status ("created" or "exists") is
// returned. On failure the intent is NOT removed, so the caller can retry
// later, and the typed RealizeFailedError propagates - the caller is a UI
// action expected to present an explicit retry affordance.
func (q *Queue) Realize(ctx context.Context, scope, taskKey string) (RealizeStatus, error) {
	intent, ok := normalize(scope, taskKey)
	if !ok {
		return "", ErrInvalidIntent
	}

	status, err := q.realizer.Realize(ctx, intent)
	if err != nil {
		return "", err
	}

	// A failed removal just means the intent is re-sent later and the
	// remote answers "exists". Harmless, so not surfaced.
	_ = q.Remove(intent.Scope, intent.TaskKey)

	return status, nil
}

// RealizeAll pushes every intent for a scope, sequentially, best-effort.
//
// Per-item failures are collected, not propagated: one failing intent does
// not block realization of the rest. After attempting all items the
// scope's intents are cleared unconditionally - including failed ones.
// This is fire-and-forget by policy, not a guaranteed-delivery system; the
// returned outcomes let callers surface partial failures if desired.
func (q *Queue) RealizeAll(ctx context.Context, scope string) []RealizeOutcome {
	items := q.ListByScope(scope)
	outcomes := make([]RealizeOutcome, 0, len(items))

	for _, it := range items {
		status, err := q.realizer.Realize(ctx, it)
		if err != nil {
			outcomes = append(outcomes, RealizeOutcome{Intent: it, Err: err})
			continue
		}
		outcomes = append(outcomes, RealizeOutcome{Intent: it, Status: status})
	}

	// Deliberate: failed intents are dropped too. See package doc.
	_ = q.Clear(scope)

	return outcomes
}
