package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntents_AddListRemove(t *testing.T) {
	store := tempStorePath(t)

	out, err := execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued acme::tax.vat.reporting")

	// Duplicate add is a no-op.
	_, err = execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)
	_, err = execute(t, "--store", store, "intents", "add", "acme", "payroll.run")
	require.NoError(t, err)

	out, err = execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (2)")
	assert.Contains(t, out, "tax.vat.reporting")
	assert.Contains(t, out, "payroll.run")

	_, err = execute(t, "--store", store, "intents", "remove", "acme", "payroll.run")
	require.NoError(t, err)

	out, err = execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (1)")
}

func TestIntents_Clear(t *testing.T) {
	store := tempStorePath(t)

	_, err := execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)
	_, err = execute(t, "--store", store, "intents", "add", "globex", "payroll.run")
	require.NoError(t, err)

	_, err = execute(t, "--store", store, "intents", "clear", "acme")
	require.NoError(t, err)

	out, err := execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (0)")

	// Other scopes are untouched.
	out, err = execute(t, "--store", store, "intents", "list", "globex")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for globex (1)")
}

func TestIntents_RealizeAgainstEndpoint(t *testing.T) {
	store := tempStorePath(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)

	out, err := execute(t, "--store", store, "intents", "realize", "acme", "tax.vat.reporting", "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "(created)")

	out, err = execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (0)")
}

func TestIntents_RealizeFailureKeepsIntent(t *testing.T) {
	store := tempStorePath(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)

	_, err = execute(t, "--store", store, "intents", "realize", "acme", "tax.vat.reporting", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err := execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (1)")
}

func TestIntents_RealizeAllBestEffort(t *testing.T) {
	store := tempStorePath(t)

	// Fail the first request, succeed afterwards.
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"exists"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "--store", store, "intents", "add", "acme", "tax.vat.reporting")
	require.NoError(t, err)
	_, err = execute(t, "--store", store, "intents", "add", "acme", "payroll.run")
	require.NoError(t, err)

	out, err := execute(t, "--store", store, "intents", "realize-all", "acme", "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Realized 1/2 intent(s) for acme")

	// The scope is cleared even though one intent failed.
	out, err = execute(t, "--store", store, "intents", "list", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending intents for acme (0)")
}
