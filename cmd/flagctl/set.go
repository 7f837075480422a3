package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a flag's value",
		Long: `The set command assigns a value to a plain flag, creating it if absent.
The value's type is inferred: "true"/"false" become bool, anything
parseable as a number becomes num, everything else becomes str.

Example:
  flagctl set feature.enabled true
  flagctl set retry.max 3
  flagctl set release.channel beta`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
}

func runSet(args []string) error {
	key, raw := args[0], args[1]
	v := parseValue(raw)

	store, err := openStore()
	if err != nil {
		return err
	}

	printVerbose("Setting %s = %s (%s)\n", key, raw, v.Tag())

	if err := store.Set(key, v); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "value": formatValue(v), "success": true})
	}
	printInfo("%s = %s\n", key, formatValue(v))
	return nil
}
