package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flagkit/flagkit/pkg/flagkit"
	"github.com/flagkit/flagkit/pkg/persist"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	storeDir string
)

var rootCmd = &cobra.Command{
	Use:   "flagctl",
	Short: "Inspect and manipulate a flagkit flag store",
	Long: `flagctl is a tool for inspecting and modifying a flagkit store: a
reactive, in-process flag registry with computed flags, undo/redo history,
and condition expressions. Each invocation opens the store persisted under
--store, applies one operation, and saves the result back.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&storeDir, "store", defaultStoreDir(), "Directory holding the persisted store")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flagctl"
	}
	return home + "/.flagctl"
}

// openStore opens the store at --store with history and autosave enabled,
// the same shape every subcommand needs before running its single operation.
func openStore() (*flagkit.Store, error) {
	backend, err := persist.NewFileBackend(storeDir)
	if err != nil {
		return nil, fmt.Errorf("open store directory: %w", err)
	}
	cfg := flagkit.DefaultConfig()
	cfg.Persist = &flagkit.PersistConfig{Backend: backend, Key: "flags", AutoSave: true}
	return flagkit.New(cfg)
}

// printInfo prints an info message if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// checkArgs validates that the correct number of arguments were provided.
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}
