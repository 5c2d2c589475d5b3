// Package main is the entry point for the wt CLI tool.
package main

import (
	"os"

	"github.com/tnorth/worktime/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
