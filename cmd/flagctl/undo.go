package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newUndoCmd())
}

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the most recently applied step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo()
		},
	}
}

func runUndo() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	applied, err := store.Undo()
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"applied": applied})
	}
	if applied {
		printInfo("undone\n")
	} else {
		printInfo("nothing to undo\n")
	}
	return nil
}
