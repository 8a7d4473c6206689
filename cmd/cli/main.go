// Package main is the entry point for the habitat-pricer CLI.
package main

import (
	"os"

	"habitat-pricer/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
