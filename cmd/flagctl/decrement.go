package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

var decrementDelta float64

func init() {
	cmd := newDecrementCmd()
	cmd.Flags().Float64Var(&decrementDelta, "by", 1, "Amount to subtract")
	rootCmd.AddCommand(cmd)
}

func newDecrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrement <key>",
		Short: "Subtract from a numeric flag",
		Long: `The decrement command subtracts --by (default 1) from a numeric flag,
creating it as --by negated if absent.

Example:
  flagctl decrement retry.count
  flagctl decrement retry.count --by 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrement(args)
		},
	}
}

func runDecrement(args []string) error {
	key := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	newVal, err := store.Decrement(key, decrementDelta)
	if err != nil {
		return fmt.Errorf("decrement %s: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "value": newVal})
	}
	printInfo("%s = %s\n", key, formatValue(flagtype.Num(newVal)))
	return nil
}
