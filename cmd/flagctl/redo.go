package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRedoCmd())
}

func newRedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Reapply the most recently undone step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRedo()
		},
	}
}

func runRedo() error {
	store, err := openStore()
	if err != nil {
		return err
	}

	applied, err := store.Redo()
	if err != nil {
		return fmt.Errorf("redo: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{"applied": applied})
	}
	if applied {
		printInfo("redone\n")
	} else {
		printInfo("nothing to redo\n")
	}
	return nil
}
