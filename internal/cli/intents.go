package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regloapp/reglo/internal/intents"
)

// defaultRealizeEndpoint matches the serve command's default address.
const defaultRealizeEndpoint = "http://localhost:8632/api/process-intents/realize"

// NewIntentsCommand creates the intents command group.
func NewIntentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intents",
		Short: "Manage the pending realize-intent queue",
		Long: `The intent queue holds (scope, taskKey) pairs waiting to be realized
against the process endpoint. Pairs are unique; adding one twice is a
no-op. Realization removes an intent only after the endpoint confirms.`,
	}

	cmd.AddCommand(newIntentsAddCommand(rootOpts))
	cmd.AddCommand(newIntentsRemoveCommand(rootOpts))
	cmd.AddCommand(newIntentsListCommand(rootOpts))
	cmd.AddCommand(newIntentsClearCommand(rootOpts))
	cmd.AddCommand(newIntentsRealizeCommand(rootOpts))
	cmd.AddCommand(newIntentsRealizeAllCommand(rootOpts))

	return cmd
}

// withQueue opens the store, builds a queue around it and runs fn.
func withQueue(rootOpts *RootOptions, cmd *cobra.Command, realizer intents.Realizer, fn func(q *intents.Queue, formatter *OutputFormatter) error) error {
	formatter := newFormatter(rootOpts, cmd)

	kv, closeStore, err := openStore(rootOpts)
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
		return err
	}
	defer closeStore()

	return fn(intents.NewQueue(kv, realizer), formatter)
}

func newIntentsAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <scope> <taskKey>",
		Short:         "Queue an intent (idempotent)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, nil, func(q *intents.Queue, formatter *OutputFormatter) error {
				if err := q.Add(args[0], args[1]); err != nil {
					_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
					return NewExitError(ExitCommandError, "adding intent failed")
				}
				return formatter.Success(fmt.Sprintf("✓ Queued %s::%s", args[0], args[1]))
			})
		},
	}
}

func newIntentsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <scope> <taskKey>",
		Short:         "Drop an intent without realizing it",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, nil, func(q *intents.Queue, formatter *OutputFormatter) error {
				if err := q.Remove(args[0], args[1]); err != nil {
					_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
					return NewExitError(ExitCommandError, "removing intent failed")
				}
				return formatter.Success(fmt.Sprintf("✓ Removed %s::%s", args[0], args[1]))
			})
		},
	}
}

func newIntentsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <scope>",
		Short:         "List pending intents for a scope",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, nil, func(q *intents.Queue, formatter *OutputFormatter) error {
				pending := q.ListByScope(args[0])
				if formatter.Format == "json" {
					return formatter.Success(pending)
				}
				fmt.Fprintf(formatter.Writer, "Pending intents for %s (%d):\n", args[0], len(pending))
				for _, intent := range pending {
					fmt.Fprintf(formatter.Writer, "  %s\n", intent.TaskKey)
				}
				return nil
			})
		},
	}
}

func newIntentsClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear <scope>",
		Short:         "Drop all pending intents for a scope",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withQueue(rootOpts, cmd, nil, func(q *intents.Queue, formatter *OutputFormatter) error {
				if err := q.Clear(args[0]); err != nil {
					_ = formatter.Error(ErrCodeStorage, err.Error(), nil)
					return NewExitError(ExitCommandError, "clearing intents failed")
				}
				return formatter.Success(fmt.Sprintf("✓ Cleared intents for %s", args[0]))
			})
		},
	}
}

func newIntentsRealizeCommand(rootOpts *RootOptions) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:           "realize <scope> <taskKey>",
		Short:         "Realize one intent against the process endpoint",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			realizer := &intents.HTTPRealizer{Endpoint: endpoint}
			return withQueue(rootOpts, cmd, realizer, func(q *intents.Queue, formatter *OutputFormatter) error {
				status, err := q.Realize(cmd.Context(), args[0], args[1])
				if err != nil {
					_ = formatter.Error(ErrCodeRealize, err.Error(), nil)
					return WrapExitError(ExitFailure, "realize failed", err)
				}
				return formatter.Success(fmt.Sprintf("✓ Realized %s::%s (%s)", args[0], args[1], status))
			})
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", defaultRealizeEndpoint, "realize endpoint URL")

	return cmd
}

func newIntentsRealizeAllCommand(rootOpts *RootOptions) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:           "realize-all <scope>",
		Short:         "Realize every pending intent for a scope, best effort",
		Long: `Attempts each pending intent in turn; one failure does not stop the
rest. The scope's queue is cleared afterwards regardless of outcome.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			realizer := &intents.HTTPRealizer{Endpoint: endpoint}
			return withQueue(rootOpts, cmd, realizer, func(q *intents.Queue, formatter *OutputFormatter) error {
				outcomes := q.RealizeAll(cmd.Context(), args[0])
				return outputRealizeAll(formatter, args[0], outcomes)
			})
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", defaultRealizeEndpoint, "realize endpoint URL")

	return cmd
}

func outputRealizeAll(formatter *OutputFormatter, scope string, outcomes []intents.RealizeOutcome) error {
	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}

	if formatter.Format == "json" {
		type outcomeView struct {
			Intent intents.Intent        `json:"intent"`
			Status intents.RealizeStatus `json:"status,omitempty"`
			Error  string                `json:"error,omitempty"`
		}
		views := make([]outcomeView, 0, len(outcomes))
		for _, outcome := range outcomes {
			view := outcomeView{Intent: outcome.Intent, Status: outcome.Status}
			if outcome.Err != nil {
				view.Error = outcome.Err.Error()
			}
			views = append(views, view)
		}
		return formatter.Success(views)
	}

	fmt.Fprintf(formatter.Writer, "Realized %d/%d intent(s) for %s\n", len(outcomes)-failed, len(outcomes), scope)
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(formatter.Writer, "  ✗ %s: %v\n", outcome.Intent.TaskKey, outcome.Err)
		} else {
			fmt.Fprintf(formatter.Writer, "  ✓ %s (%s)\n", outcome.Intent.TaskKey, outcome.Status)
		}
	}
	return nil
}
