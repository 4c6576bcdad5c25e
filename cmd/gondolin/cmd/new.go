package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/needlesslygrim/gondolin/internal/store"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Add a new login interactively",
	Long: `Add a new login to the store.

Prompts for a name, username, and password; the password is read with
terminal echo disabled.`,
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(_ *cobra.Command, _ []string) error {
	return withStore(func(s *store.Store) error {
		name, err := promptLine("Name: ")
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("name cannot be empty")
		}

		username, err := promptLine("Username: ")
		if err != nil {
			return err
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		id := s.Add(store.Record{
			Name:     name,
			Username: username,
			Password: password,
		})

		Success("Added %q (%s)", name, id)
		return nil
	})
}
