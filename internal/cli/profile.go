package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regloapp/reglo/internal/profile"
)

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and edit stored client profiles",
	}

	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileSetCommand(rootOpts))
	cmd.AddCommand(newProfileResetCommand(rootOpts))

	return cmd
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <scope>",
		Short:         "Print the stored profile (or the default if none is stored)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			kv, closeStore, err := openStore(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
				return err
			}
			defer closeStore()

			p := profile.NewStore(kv).Load(args[0])
			return outputProfile(formatter, p)
		},
	}
}

func newProfileSetCommand(rootOpts *RootOptions) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:           "set <scope>",
		Short:         "Validate and store a profile from a JSON file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			scope := args[0]

			data, err := os.ReadFile(filePath)
			if err != nil {
				_ = formatter.Error(ErrCodeInput, fmt.Sprintf("reading profile file: %v", err), nil)
				return WrapExitError(ExitCommandError, "reading profile file", err)
			}

			var p profile.ClientProfile
			if err := json.Unmarshal(data, &p); err != nil {
				_ = formatter.Error(ErrCodeJSON, fmt.Sprintf("parsing profile: %v", err), nil)
				return WrapExitError(ExitCommandError, "parsing profile", err)
			}
			p.ClientID = scope

			if err := profile.Validate(p); err != nil {
				_ = formatter.Error(ErrCodeInput, fmt.Sprintf("profile rejected: %v", err), nil)
				return WrapExitError(ExitCommandError, "profile rejected", err)
			}

			kv, closeStore, err := openStore(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
				return err
			}
			defer closeStore()

			if res := profile.NewStore(kv).Save(p); !res.OK {
				_ = formatter.Error(ErrCodeStorage, fmt.Sprintf("storing profile: %v", res.Err), nil)
				return NewExitError(ExitCommandError, "storing profile failed")
			}
			return formatter.Success(fmt.Sprintf("✓ Profile stored for %s", scope))
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "JSON profile file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newProfileResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset <scope>",
		Short:         "Replace the stored profile with the default",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			kv, closeStore, err := openStore(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
				return err
			}
			defer closeStore()

			p, res := profile.NewStore(kv).Reset(args[0])
			if !res.OK {
				_ = formatter.Error(ErrCodeStorage, fmt.Sprintf("resetting profile: %v", res.Err), nil)
				return NewExitError(ExitCommandError, "resetting profile failed")
			}
			return outputProfile(formatter, p)
		},
	}
}

// newFormatter builds the per-command formatter from the global flags.
func newFormatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

func outputProfile(formatter *OutputFormatter, p profile.ClientProfile) error {
	if formatter.Format == "json" {
		return formatter.Success(p)
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "encoding profile", err)
	}
	fmt.Fprintln(formatter.Writer, string(out))
	return nil
}
