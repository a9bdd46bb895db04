package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeObligationsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obligations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadObligations(t *testing.T) {
	path := writeObligationsFile(t, `
scope: acme
obligations:
  - key: tax.vat.reporting
    title: VAT reporting
    cadence: QUARTERLY
    reason: vatMode=VAT_20
  - key: payroll.run
    title: Payroll run
    cadence: MONTHLY
`)

	file, err := LoadObligations(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", file.Scope)
	require.Len(t, file.Obligations, 2)
	assert.Equal(t, "tax.vat.reporting", file.Obligations[0].Key)
	assert.Equal(t, "VAT reporting", file.Obligations[0].Title)
	assert.Equal(t, "QUARTERLY", file.Obligations[0].Cadence)
}

func TestLoadObligations_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty list",
			content: "obligations: []\n",
			wantErr: "lists no obligations",
		},
		{
			name:    "missing title",
			content: "obligations:\n  - key: tax.vat.reporting\n",
			wantErr: "has no title",
		},
		{
			name:    "malformed yaml",
			content: "obligations: [",
			wantErr: "parsing obligations file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeObligationsFile(t, tt.content)
			_, err := LoadObligations(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadObligations_MissingFile(t *testing.T) {
	_, err := LoadObligations(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading obligations file")
}
