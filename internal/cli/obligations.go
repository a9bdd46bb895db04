package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/regloapp/reglo/internal/derive"
)

// ObligationsFile is the on-disk YAML shape for a hand-authored obligation
// list, used when materializing without a stored profile.
type ObligationsFile struct {
	// Scope optionally pins the file to one client; when set it must match
	// the scope argument of the command that loads it.
	Scope string `yaml:"scope,omitempty"`

	// Obligations is the expected-duty list in derivation order.
	Obligations []derive.Obligation `yaml:"obligations"`
}

// LoadObligations reads and validates a YAML obligations file.
func LoadObligations(path string) (*ObligationsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading obligations file: %w", err)
	}

	var file ObligationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing obligations file %s: %w", path, err)
	}

	if len(file.Obligations) == 0 {
		return nil, fmt.Errorf("obligations file %s lists no obligations", path)
	}
	for i, ob := range file.Obligations {
		if strings.TrimSpace(ob.Title) == "" {
			return nil, fmt.Errorf("obligations file %s: entry %d has no title", path, i)
		}
	}

	return &file, nil
}
