// Package main is the vitrine CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/vitrine/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
