package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <expr>",
		Short: "Evaluate a condition expression against the store",
		Long: `The check command parses and evaluates a condition expression against
the store's current values and prints the boolean result.

Example:
  flagctl check "feature.enabled AND retry.count > 3"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
}

func runCheck(args []string) error {
	expr := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	result, err := store.Check(expr)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"expr": expr, "result": result})
	}
	printInfo("%t\n", result)
	return nil
}
