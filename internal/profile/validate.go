package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// schema compiles the embedded CUE schema once per process.
func schema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile profile schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#ClientProfile"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #ClientProfile: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// Validate checks p against the embedded CUE schema.
// Returns nil when the profile conforms; otherwise the unification error
// naming the offending field.
func Validate(p ClientProfile) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	expr, err := cuejson.Extract("profile.json", raw)
	if err != nil {
		return fmt.Errorf("extract profile: %w", err)
	}

	val := sch.Context().BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("build profile value: %w", err)
	}

	unified := sch.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("profile schema violation: %w", err)
	}
	return nil
}
