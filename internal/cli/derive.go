package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/regloapp/reglo/internal/derive"
	"github.com/regloapp/reglo/internal/profile"
	"github.com/regloapp/reglo/internal/risk"
)

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	*RootOptions
	WithRisks bool
	YAML      bool
}

// deriveReport is the derive command's output payload.
type deriveReport struct {
	Scope       string              `json:"scope" yaml:"scope"`
	Obligations []derive.Obligation `json:"obligations" yaml:"obligations"`
	Risks       []risk.Risk         `json:"risks,omitempty" yaml:"risks,omitempty"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "derive <scope>",
		Short: "Derive expected obligations from the stored profile",
		Long: `Evaluate the derivation rules against the stored client profile and
print the expected obligation list. The output of --yaml can be fed
back to materialize and coverage via --obligations.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.WithRisks, "risks", false, "include risk findings")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "emit an obligations file instead of a report")

	return cmd
}

func runDerive(opts *DeriveOptions, scope string, cmd *cobra.Command) error {
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

	p := profile.NewStore(kv).Load(scope)
	obligations := derive.Obligations(p)
	formatter.VerboseLog("Derived %d obligation(s) for %s", len(obligations), scope)

	report := deriveReport{Scope: scope, Obligations: obligations}
	if opts.WithRisks {
		report.Risks = risk.Compute(p, obligations)
	}

	if opts.YAML {
		out, err := yaml.Marshal(ObligationsFile{Scope: scope, Obligations: obligations})
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding obligations", err)
		}
		fmt.Fprint(formatter.Writer, string(out))
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "Obligations for %s (%d):\n", scope, len(report.Obligations))
	for _, ob := range report.Obligations {
		fmt.Fprintf(formatter.Writer, "  %-28s %-10s %s\n", ob.Key, ob.Cadence, ob.Title)
	}
	if opts.WithRisks {
		fmt.Fprintf(formatter.Writer, "\nRisks (%d):\n", len(report.Risks))
		for _, r := range report.Risks {
			fmt.Fprintf(formatter.Writer, "  [%s/%d] %s: %s\n", r.Kind, r.Severity, r.Title, r.Details)
		}
	}
	return nil
}
