package intents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regloapp/reglo/internal/storage"
)

func TestHTTPRealizer_Created(t *testing.T) {
	var gotBody Intent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"status": "created"})
	}))
	defer srv.Close()

	r := &HTTPRealizer{Endpoint: srv.URL}
	status, err := r.Realize(context.Background(), Intent{Scope: "acme", TaskKey: "tax.vat.reporting"})

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)
	assert.Equal(t, Intent{Scope: "acme", TaskKey: "tax.vat.reporting"}, gotBody)
}

func TestHTTPRealizer_Exists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "exists"})
	}))
	defer srv.Close()

	r := &HTTPRealizer{Endpoint: srv.URL}
	status, err := r.Realize(context.Background(), Intent{Scope: "acme", TaskKey: "k"})

	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
}

func TestHTTPRealizer_Non2xxIsRealizeFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := &HTTPRealizer{Endpoint: srv.URL}
	_, err := r.Realize(context.Background(), Intent{Scope: "acme", TaskKey: "k"})

	var re *RealizeFailedError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
}

func TestHTTPRealizer_UnknownStatusRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "maybe"})
	}))
	defer srv.Close()

	r := &HTTPRealizer{Endpoint: srv.URL}
	_, err := r.Realize(context.Background(), Intent{Scope: "acme", TaskKey: "k"})

	assert.True(t, IsRealizeFailed(err))
}

func TestQueueWithHTTPRealizer_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "created"})
	}))
	defer srv.Close()

	q := NewQueue(storage.NewStore(storage.NewMemory()), &HTTPRealizer{Endpoint: srv.URL})
	require.NoError(t, q.Add("acme", "tax.vat.reporting"))

	status, err := q.Realize(context.Background(), "acme", "tax.vat.reporting")
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, status)
	assert.False(t, q.Has("acme", "tax.vat.reporting"))
}

func TestBroadcaster_SubscribeCancel(t *testing.T) {
	b := NewBroadcaster()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Broadcast()
	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)

	// Coalescing: a second broadcast does not queue a second notification.
	b.Broadcast()
	assert.Len(t, ch1, 1)

	<-ch1
	cancel1()
	cancel1() // double-cancel is safe
	b.Broadcast()
	assert.Len(t, ch1, 0, "cancelled subscriber no longer notified")
	assert.Len(t, ch2, 1)
}
