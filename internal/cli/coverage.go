package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/regloapp/reglo/internal/coverage"
	"github.com/regloapp/reglo/internal/derive"
	"github.com/regloapp/reglo/internal/identity"
	"github.com/regloapp/reglo/internal/profile"
	"github.com/regloapp/reglo/internal/recon"
)

// CoverageOptions holds flags for the coverage command.
type CoverageOptions struct {
	*RootOptions
	ObligationsPath string
	FailOnGaps      bool
}

// NewCoverageCommand creates the coverage command.
func NewCoverageCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CoverageOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "coverage <scope>",
		Short: "Report covered and uncovered obligations",
		Long: `Compare the expected obligation list for a scope against the locally
materialized task set and report which obligations are covered.

Obligations are matched to tasks by content-addressed identity: an
obligation is covered when a task derived from the same normalized
title exists in the scope.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoverage(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ObligationsPath, "obligations", "f", "", "YAML obligations file (overrides profile derivation)")
	cmd.Flags().BoolVar(&opts.FailOnGaps, "fail-on-gaps", false, "exit non-zero when uncovered obligations remain")

	return cmd
}

func runCoverage(opts *CoverageOptions, scope string, cmd *cobra.Command) error {
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

	var obligations []derive.Obligation
	if opts.ObligationsPath != "" {
		file, loadErr := LoadObligations(opts.ObligationsPath)
		if loadErr != nil {
			_ = formatter.Error(ErrCodeInput, loadErr.Error(), nil)
			return WrapExitError(ExitCommandError, "loading obligations", loadErr)
		}
		if file.Scope != "" && file.Scope != scope {
			msg := fmt.Sprintf("obligations file is pinned to scope %q, not %q", file.Scope, scope)
			_ = formatter.Error(ErrCodeInput, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		obligations = file.Obligations
	} else {
		obligations = derive.Obligations(profile.NewStore(kv).Load(scope))
	}

	tasks := recon.NewEngine(kv).Load(scope)
	result := coverage.Compute(coverageDerived(scope, obligations), coverageTasks(tasks))

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		renderCoverageText(formatter.Writer, scope, result)
	}

	if opts.FailOnGaps && result.Uncovered > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d obligation(s) uncovered", result.Uncovered))
	}
	return nil
}

// coverageDerived keys each obligation by its content-addressed task ID so
// the coverage partition matches on the same identity reconciliation uses.
func coverageDerived(scope string, obligations []derive.Obligation) []coverage.DerivedItem {
	items := make([]coverage.DerivedItem, 0, len(obligations))
	for _, ob := range obligations {
		items = append(items, coverage.DerivedItem{
			Key:     identity.TaskID(scope, ob.Title),
			Title:   ob.Title,
			Source:  ob.Source,
			Reason:  ob.Reason,
			Cadence: ob.Cadence,
		})
	}
	return items
}

func coverageTasks(tasks []recon.Task) []coverage.TaskRef {
	refs := make([]coverage.TaskRef, 0, len(tasks))
	for _, task := range tasks {
		refs = append(refs, coverage.TaskRef{Key: task.ID})
	}
	return refs
}

// renderCoverageText writes the human-readable coverage report.
func renderCoverageText(w io.Writer, scope string, result coverage.Result) {
	fmt.Fprintf(w, "Coverage for %s: %d/%d obligation(s) covered (%d task(s) on record)\n",
		scope, result.Covered, result.DerivedTotal, result.TasksTotal)

	if result.Uncovered == 0 {
		fmt.Fprintln(w, "\n✓ No gaps")
		return
	}

	fmt.Fprintln(w, "\nUncovered:")
	for _, item := range result.UncoveredItems {
		fmt.Fprintf(w, "  %s [%s]", item.Title, item.Key)
		if item.Cadence != "" {
			fmt.Fprintf(w, " %s", item.Cadence)
		}
		if item.Reason != "" {
			fmt.Fprintf(w, " (%s)", item.Reason)
		}
		fmt.Fprintln(w)
	}
}
