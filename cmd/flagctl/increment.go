package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

var incrementDelta float64

func init() {
	cmd := newIncrementCmd()
	cmd.Flags().Float64Var(&incrementDelta, "by", 1, "Amount to add")
	rootCmd.AddCommand(cmd)
}

func newIncrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increment <key>",
		Short: "Add to a numeric flag",
		Long: `The increment command adds --by (default 1) to a numeric flag, creating
it as --by if absent.

Example:
  flagctl increment retry.count
  flagctl increment retry.count --by 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIncrement(args)
		},
	}
}

func runIncrement(args []string) error {
	key := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	newVal, err := store.Increment(key, incrementDelta)
	if err != nil {
		return fmt.Errorf("increment %s: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"key": key, "value": newVal})
	}
	printInfo("%s = %s\n", key, formatValue(flagtype.Num(newVal)))
	return nil
}
