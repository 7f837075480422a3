package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flagkit/flagkit/pkg/flagkit"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [key]",
		Short: "Stream change events to stdout until interrupted",
		Long: `The watch command subscribes to the store and prints every (key, old,
new) event as it arrives, until interrupted with Ctrl-C. With no arguments
it subscribes globally; with one argument it subscribes to that key only.

Example:
  flagctl watch
  flagctl watch feature.enabled`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args)
		},
	}
}

func runWatch(args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	print := func(ev flagkit.Event) {
		printInfo("%s: %s -> %s\n", ev.Key, describe(ev.Old, ev.OldPresent), describe(ev.New, ev.NewPresent))
	}

	if len(args) == 1 {
		store.SubscribeKey(args[0], print)
	} else {
		store.Subscribe(print)
	}

	printVerbose("watching; press Ctrl-C to stop\n")
	<-ctx.Done()
	printVerbose("stopped\n")
	return nil
}

func describe(v flagtype.Value, present bool) string {
	if !present {
		return "<absent>"
	}
	return formatValue(v)
}
