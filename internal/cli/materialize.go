package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regloapp/reglo/internal/derive"
	"github.com/regloapp/reglo/internal/profile"
	"github.com/regloapp/reglo/internal/recon"
	"github.com/regloapp/reglo/internal/storage"
)

// MaterializeOptions holds flags for the materialize command.
type MaterializeOptions struct {
	*RootOptions
	ObligationsPath string // optional YAML obligation list overriding profile derivation
}

// NewMaterializeCommand creates the materialize command.
func NewMaterializeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MaterializeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "materialize <scope>",
		Short: "Reconcile derived obligations into local tasks",
		Long: `Derive the expected obligation list for a scope and reconcile it into
the persisted local task set.

By default obligations are derived from the stored client profile. With
--obligations, a YAML file supplies the list instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaterialize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ObligationsPath, "obligations", "f", "", "YAML obligations file (overrides profile derivation)")

	return cmd
}

func runMaterialize(opts *MaterializeOptions, scope string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	kv, closeStore, err := openStore(opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return err
	}
	defer closeStore()

	obligations, err := resolveObligations(opts, scope, kv, formatter)
	if err != nil {
		_ = formatter.Error(ErrCodeInput, err.Error(), nil)
		return WrapExitError(ExitCommandError, "resolving obligations", err)
	}

	engine := recon.NewEngine(kv)
	result := engine.Materialize(scope, obligations)

	if !result.PersistedOK {
		detail := ""
		if result.Err != nil {
			detail = result.Err.Error()
		}
		_ = formatter.Error(ErrCodeStorage, fmt.Sprintf("persisting tasks for %s: %s", scope, detail), result)
		return NewExitError(ExitCommandError, "materialize: persistence failed")
	}

	return outputMaterializeSuccess(formatter, scope, result)
}

// resolveObligations picks the obligation source: an explicit file when
// --obligations is set, otherwise derivation from the stored profile.
func resolveObligations(opts *MaterializeOptions, scope string, kv *storage.Store, formatter *OutputFormatter) ([]recon.Obligation, error) {
	if opts.ObligationsPath != "" {
		file, err := LoadObligations(opts.ObligationsPath)
		if err != nil {
			return nil, err
		}
		if file.Scope != "" && file.Scope != scope {
			return nil, fmt.Errorf("obligations file is pinned to scope %q, not %q", file.Scope, scope)
		}
		formatter.VerboseLog("Loaded %d obligation(s) from %s", len(file.Obligations), opts.ObligationsPath)
		return toReconObligations(file.Obligations), nil
	}

	p := profile.NewStore(kv).Load(scope)
	derived := derive.Obligations(p)
	formatter.VerboseLog("Derived %d obligation(s) from profile %s", len(derived), scope)
	return toReconObligations(derived), nil
}

func toReconObligations(in []derive.Obligation) []recon.Obligation {
	out := make([]recon.Obligation, 0, len(in))
	for _, ob := range in {
		out = append(out, recon.Obligation{Title: ob.Title, Cadence: ob.Cadence})
	}
	return out
}

func outputMaterializeSuccess(formatter *OutputFormatter, scope string, result recon.Result) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Materialized tasks for %s: %d created, %d updated\n",
		scope, result.Created, result.Updated)
	if formatter.Verbose {
		fmt.Fprintf(formatter.Writer, "Persisted %d byte(s)\n", result.Size)
	}
	return nil
}
