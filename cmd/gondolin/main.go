// Package main is the entry point for the gondolin CLI.
package main

import (
	"os"

	"github.com/needlesslygrim/gondolin/cmd/gondolin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
