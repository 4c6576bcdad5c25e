package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/needlesslygrim/gondolin/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query [name]",
	Short: "Search logins by fuzzy name match",
	Long: `Search logins whose name fuzzily matches the given text, best match
first. Without an argument, every login is listed.

Examples:
  gondolin query
  gondolin query gh
  gondolin query --json github`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(_ *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	return withStore(func(s *store.Store) error {
		entries := s.Query(name)

		if jsonOutput {
			type record struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				Username string `json:"username"`
				Password string `json:"password"`
			}
			payload := make([]record, len(entries))
			for i, e := range entries {
				payload[i] = record{
					ID:       e.ID.String(),
					Name:     e.Record.Name,
					Username: e.Record.Username,
					Password: e.Record.Password,
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}

		if len(entries) == 0 {
			fmt.Println("No records")
			return nil
		}

		printTable(entries)
		return nil
	})
}
