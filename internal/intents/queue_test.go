package intents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regloapp/reglo/internal/storage"
)

// fakeRealizer scripts remote outcomes per task key.
type fakeRealizer struct {
	status map[string]RealizeStatus
	fail   map[string]bool
	calls  []Intent
}

func (f *fakeRealizer) Realize(_ context.Context, intent Intent) (RealizeStatus, error) {
	f.calls = append(f.calls, intent)
	if f.fail[intent.TaskKey] {
		return "", &RealizeFailedError{Scope: intent.Scope, TaskKey: intent.TaskKey, StatusCode: 500}
	}
	if s, ok := f.status[intent.TaskKey]; ok {
		return s, nil
	}
	return StatusCreated, nil
}

func newTestQueue(t *testing.T) (*Queue, *fakeRealizer) {
	t.Helper()
	f := &fakeRealizer{status: map[string]RealizeStatus{}, fail: map[string]bool{}}
	return NewQueue(storage.NewStore(storage.NewMemory()), f), f
}

func TestAdd_Deduplicates(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.Add("acme", "tax.vat.reporting"))
	require.NoError(t, q.Add("acme", "tax.vat.reporting"))

	assert.Equal(t, 1, q.Count("acme"))
	assert.True(t, q.Has("acme", "tax.vat.reporting"))
}

func TestAdd_TrimsAndRejectsBlank(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.Add(" acme ", " tax.vat.reporting "))
	assert.True(t, q.Has("acme", "tax.vat.reporting"))

	assert.ErrorIs(t, q.Add("", "k"), ErrInvalidIntent)
	assert.ErrorIs(t, q.Add("s", "  "), ErrInvalidIntent)
}

func TestRemove_AbsentPairIsNoOp(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.Add("acme", "a"))
	require.NoError(t, q.Remove("acme", "b"))
	assert.Equal(t, 1, q.Count(""))

	require.NoError(t, q.Remove("acme", "a"))
	assert.Equal(t, 0, q.Count(""))
}

func TestListByScope_FiltersAndPreservesOrder(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.Add("acme", "b"))
	require.NoError(t, q.Add("globex", "x"))
	require.NoError(t, q.Add("acme", "a"))

	got := q.ListByScope("acme")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].TaskKey)
	assert.Equal(t, "a", got[1].TaskKey)
}

func TestClear_ScopedAndGlobal(t *testing.T) {
	q, _ := newTestQueue(t)

	require.NoError(t, q.Add("acme", "a"))
	require.NoError(t, q.Add("globex", "x"))

	require.NoError(t, q.Clear("acme"))
	assert.Equal(t, 0, q.Count("acme"))
	assert.Equal(t, 1, q.Count("globex"))

	require.NoError(t, q.Clear(""))
	assert.Equal(t, 0, q.Count(""))
}

func TestRealize_SuccessRemovesIntent(t *testing.T) {
	q, _ := newTestQueue(t)
	require.NoError(t, q.Add("acme", "tax.vat.reporting"))

	status, err := q.Realize(context.Background(), "acme", "tax.vat.reporting")

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)
	assert.False(t, q.Has("acme", "tax.vat.reporting"))
}

func TestRealize_ExistsAlsoRemoves(t *testing.T) {
	q, f := newTestQueue(t)
	f.status["tax.vat.reporting"] = StatusExists
	require.NoError(t, q.Add("acme", "tax.vat.reporting"))

	status, err := q.Realize(context.Background(), "acme", "tax.vat.reporting")

	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
	assert.False(t, q.Has("acme", "tax.vat.reporting"))
}

func TestRealize_FailureRetainsIntent(t *testing.T) {
	q, f := newTestQueue(t)
	f.fail["tax.vat.reporting"] = true
	require.NoError(t, q.Add("acme", "tax.vat.reporting"))

	_, err := q.Realize(context.Background(), "acme", "tax.vat.reporting")

	require.Error(t, err)
	assert.True(t, IsRealizeFailed(err))
	var re *RealizeFailedError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 500, re.StatusCode)
	assert.True(t, q.Has("acme", "tax.vat.reporting"), "failed intent stays for retry")
}

func TestRealize_ExactlyOneRemoteCall(t *testing.T) {
	q, f := newTestQueue(t)
	require.NoError(t, q.Add("acme", "a"))

	_, err := q.Realize(context.Background(), "acme", "a")
	require.NoError(t, err)

	assert.Len(t, f.calls, 1)
}

func TestRealizeAll_BestEffortThenClears(t *testing.T) {
	q, f := newTestQueue(t)
	f.fail["b"] = true
	require.NoError(t, q.Add("acme", "a"))
	require.NoError(t, q.Add("acme", "b"))
	require.NoError(t, q.Add("acme", "c"))
	require.NoError(t, q.Add("globex", "x"))

	outcomes := q.RealizeAll(context.Background(), "acme")

	require.Len(t, outcomes, 3)
	assert.Equal(t, StatusCreated, outcomes[0].Status)
	assert.Error(t, outcomes[1].Err, "middle failure does not block the rest")
	assert.Equal(t, StatusCreated, outcomes[2].Status)
	assert.Len(t, f.calls, 3, "sequential, one call per intent")

	// Fire-and-forget policy: the scope clears even though "b" failed.
	assert.Equal(t, 0, q.Count("acme"))
	assert.Equal(t, 1, q.Count("globex"), "other scopes untouched")
}

func TestMutations_Broadcast(t *testing.T) {
	q, _ := newTestQueue(t)
	ch, cancel := q.Notifier().Subscribe()
	defer cancel()

	drain := func() bool {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}

	require.NoError(t, q.Add("acme", "a"))
	assert.True(t, drain(), "add broadcasts")

	require.NoError(t, q.Add("acme", "a"))
	assert.False(t, drain(), "duplicate add is a no-op, no broadcast")

	require.NoError(t, q.Remove("acme", "a"))
	assert.True(t, drain(), "remove broadcasts")

	require.NoError(t, q.Remove("acme", "a"))
	assert.False(t, drain(), "absent remove is a no-op, no broadcast")
}

func TestLoad_FailOpenOnStorageError(t *testing.T) {
	mem := storage.NewMemory()
	q := NewQueue(storage.NewStore(mem), nil)
	require.NoError(t, q.Add("acme", "a"))

	mem.FailGet = errors.New("locked")
	assert.Equal(t, 0, q.Count(""), "unreadable queue degrades to empty")

	mem.FailGet = nil
	assert.Equal(t, 1, q.Count(""), "durable state intact underneath")
}

func TestLoad_DropsBlankEntriesFromPersistedDocument(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(storage.IntentsKey(),
		`[{"scope":"acme","taskKey":"a"},{"scope":"","taskKey":"x"},{"scope":"acme","taskKey":" "}]`))
	q := NewQueue(storage.NewStore(mem), nil)

	assert.Equal(t, 1, q.Count(""))
}
