// Package cmd provides the CLI commands for gondolin.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	homeDir    string
	jsonOutput bool
)

const defaultHomeName = ".gondolin"

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "gondolin",
	Short: "A simple local password manager",
	Long: `Gondolin keeps named (service, username, password) records in a single
local file and finds them again by fuzzy name match.

Get started:
  gondolin init            Initialise a store and configuration
  gondolin new             Add a login interactively
  gondolin query [name]    Search logins by name
  gondolin remove [id]     Remove a login
  gondolin serve           Serve the query page and HTTP API`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		Error("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "gondolin directory (default ~/.gondolin)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
}

// gondolinHome returns the directory holding the config and store files.
// Priority: --home flag > GONDOLIN_HOME env > ~/.gondolin.
func gondolinHome() string {
	if homeDir != "" {
		return homeDir
	}
	if dir := os.Getenv("GONDOLIN_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultHomeName
	}
	return filepath.Join(home, defaultHomeName)
}
