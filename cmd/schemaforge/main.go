package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/schemaforge/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Command-level errors were already written by the formatter; only
		// flag and usage errors never reach one, so print those.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
