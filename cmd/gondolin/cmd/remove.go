package cmd

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/needlesslygrim/gondolin/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a login",
	Long: `Remove a login from the store.

With an id argument the matching record is removed directly. Without one,
all logins are listed and you pick the record to remove.

Examples:
  gondolin remove
  gondolin remove 6d9075a8-66ef-4ab5-b2ea-e22e09963269`,
	Aliases: []string{"rm"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	return withStore(func(s *store.Store) error {
		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}
			rec, ok := s.Remove(id)
			if !ok {
				return fmt.Errorf("no record with id %s", id)
			}
			Success("Removed %q", rec.Name)
			return nil
		}

		return removeInteractive(s)
	})
}

// removeInteractive lists every record and prompts for a selection.
func removeInteractive(s *store.Store) error {
	entries := s.Query("")
	if len(entries) == 0 {
		fmt.Println("No records")
		return nil
	}

	for i, e := range entries {
		fmt.Printf("%3d. %s (%s)\n", i+1, e.Record.Name, e.Record.Username)
	}

	choice, err := promptLine("Select a record to remove (empty to cancel): ")
	if err != nil {
		return err
	}
	if choice == "" {
		return nil
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(entries) {
		return fmt.Errorf("invalid selection %q", choice)
	}

	entry := entries[n-1]
	if !PromptConfirm(fmt.Sprintf("Remove %q?", entry.Record.Name)) {
		return nil
	}

	s.Remove(entry.ID)
	Success("Removed %q", entry.Record.Name)
	return nil
}
