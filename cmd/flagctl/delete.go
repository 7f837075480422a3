package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a flag's plain entry",
		Long: `The delete command removes a plain flag's entry. Deleting an absent key
is a no-op; deleting a computed key fails.

Example:
  flagctl delete feature.enabled`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args)
		},
	}
}

func runDelete(args []string) error {
	key := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	if err := store.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "deleted": true})
	}
	printInfo("deleted %s\n", key)
	return nil
}
