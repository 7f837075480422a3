package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a flag's current value",
		Long: `The get command prints a flag's current value, plain or computed.

Example:
  flagctl get feature.enabled`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
}

func runGet(args []string) error {
	key := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}

	printVerbose("Reading key: %s\n", key)

	v, ok := store.Get(key)
	if !ok {
		return fmt.Errorf("key %q is not present", key)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"key":   key,
			"type":  v.Tag().String(),
			"value": formatValue(v),
		})
	}

	printInfo("%s\n", formatValue(v))
	return nil
}
