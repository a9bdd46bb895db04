package main

import (
	"os"

	"github.com/regloapp/reglo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own error output; Execute's error only
		// carries the exit code.
		os.Exit(cli.GetExitCode(err))
	}
}
