package main

import (
	"github.com/spf13/cobra"
)

var historyClear bool

func init() {
	cmd := newHistoryCmd()
	cmd.Flags().BoolVar(&historyClear, "clear", false, "Discard every recorded step")
	rootCmd.AddCommand(cmd)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Report undo/redo availability, or clear recorded steps",
		Long: `The history command reports whether a step is available to undo and
redo. --clear discards every recorded step without touching current values.

Example:
  flagctl history
  flagctl history --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory()
		},
	}
}

func runHistory() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	if historyClear {
		store.ClearHistory()
		if jsonOut {
			return printJSON(map[string]interface{}{"cleared": true})
		}
		printInfo("history cleared\n")
		return nil
	}

	canUndo, canRedo := store.CanUndo(), store.CanRedo()
	if jsonOut {
		return printJSON(map[string]interface{}{"can_undo": canUndo, "can_redo": canRedo})
	}
	printInfo("can undo: %t\ncan redo: %t\n", canUndo, canRedo)
	return nil
}
