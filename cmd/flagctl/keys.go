package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newKeysCmd())
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every key in the store",
		Long: `The keys command lists every plain and computed key currently held by
the store.

Example:
  flagctl keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys()
		},
	}
}

func runKeys() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	keys := store.Keys()
	sort.Strings(keys)

	if jsonOut {
		return printJSON(keys)
	}
	for _, k := range keys {
		printInfo("%s\n", k)
	}
	return nil
}
