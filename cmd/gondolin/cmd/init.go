package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/needlesslygrim/gondolin/internal/config"
	"github.com/needlesslygrim/gondolin/internal/store"
)

var initPort int

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a new store and configuration",
	Long: `Initialise a configuration file and an empty record store.

Both are created in the gondolin directory (~/.gondolin by default) and
neither may already exist.

Examples:
  gondolin init
  gondolin init --port 8080
  gondolin init --home ~/my-logins`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initPort, "port", 56423, "port for the HTTP server")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir := gondolinHome()

	cfg, err := config.Init(dir, initPort)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("a configuration file already exists in %s", dir)
		}
		return err
	}

	if _, err := store.Init(cfg.Store.Path); err != nil {
		if errors.Is(err, store.ErrStoreExists) {
			return fmt.Errorf("a store already exists at %s, refusing to overwrite it", cfg.Store.Path)
		}
		return fmt.Errorf("initialise store: %w", err)
	}

	Success("Initialised a store and configuration in %s", dir)
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Next steps:")
	fmt.Fprintln(os.Stderr, "  gondolin new            Add a login")
	fmt.Fprintln(os.Stderr, "  gondolin query [name]   Search logins")
	fmt.Fprintln(os.Stderr, "  gondolin serve          Serve the query page")

	return nil
}
