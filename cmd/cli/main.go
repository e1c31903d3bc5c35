// Package main is the entry point for the infra-review CLI.
package main

import (
	"os"

	"infra-review/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
