package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newToggleCmd())
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <key>",
		Short: "Flip a boolean flag",
		Long: `The toggle command flips a boolean flag, creating it as true if absent.

Example:
  flagctl toggle feature.enabled`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(args)
		},
	}
}

func runToggle(args []string) error {
	key := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	newVal, err := store.Toggle(key)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "value": newVal})
	}
	printInfo("%s = %t\n", key, newVal)
	return nil
}
