package cli

import (
	"github.com/spf13/cobra"

	"github.com/regloapp/reglo/internal/instances"
	"github.com/regloapp/reglo/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr          string
	InstancesPath string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local process-intents endpoint",
		Long: `Serves the realize endpoint the intent queue posts to. Process
instances are kept in a JSON file next to the store.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			formatter.VerboseLog("Serving on %s, instances in %s", opts.Addr, opts.InstancesPath)

			server := web.NewServer(instances.NewStore(opts.InstancesPath))
			if err := server.Run(opts.Addr); err != nil {
				return WrapExitError(ExitCommandError, "server stopped", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8632", "listen address")
	cmd.Flags().StringVar(&opts.InstancesPath, "instances", "instances.json", "process instances file")

	return cmd
}
