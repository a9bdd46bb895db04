package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "reglo.db")
}

func TestMaterialize_FromObligationsFile(t *testing.T) {
	store := tempStorePath(t)
	obligations := writeObligationsFile(t, `
obligations:
  - key: tax.vat.reporting
    title: VAT filing
    cadence: monthly
`)

	out, err := execute(t, "--store", store, "materialize", "acme", "--obligations", obligations)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 updated")

	// Second pass over the same list changes nothing.
	out, err = execute(t, "--store", store, "materialize", "acme", "--obligations", obligations)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 0 updated")
}

func TestMaterialize_FromDefaultProfile(t *testing.T) {
	store := tempStorePath(t)

	out, err := execute(t, "--store", store, "--format", "json", "materialize", "acme")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Created     int  `json:"created"`
			Updated     int  `json:"updated"`
			PersistedOK bool `json:"persisted_ok"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.PersistedOK)
	// The default profile always derives at least the USN pair and the
	// bank statement request.
	assert.GreaterOrEqual(t, resp.Data.Created, 3)
	assert.Zero(t, resp.Data.Updated)
}

func TestMaterialize_ScopePinnedFileMismatch(t *testing.T) {
	store := tempStorePath(t)
	obligations := writeObligationsFile(t, `
scope: globex
obligations:
  - title: VAT filing
`)

	_, err := execute(t, "--store", store, "materialize", "acme", "--obligations", obligations)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMaterialize_MissingObligationsFile(t *testing.T) {
	store := tempStorePath(t)

	_, err := execute(t, "--store", store, "materialize", "acme", "--obligations", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
