// Command flagview is a terminal UI for browsing a flagkit store: a
// scrollable key list on the left and a live-updating detail pane on
// the right, driven by the store's own subscription pipeline rather
// than polling.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flagkit/flagkit/pkg/flagkit"
	"github.com/flagkit/flagkit/pkg/persist"
)

const version = "0.1.0"

func main() {
	var storeDir string
	args := os.Args[1:]
	for _, a := range args {
		switch a {
		case "--help", "-h":
			printUsage()
			return
		case "--version", "-v":
			fmt.Println("flagview " + version)
			return
		default:
			storeDir = a
		}
	}

	if storeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			storeDir = ".flagctl"
		} else {
			storeDir = home + "/.flagctl"
		}
	}

	store, err := openStore(storeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flagview: %v\n", err)
		os.Exit(1)
	}

	m := newModel(store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flagview: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`flagview [store-dir]

Browse a flagkit store interactively. store-dir defaults to ~/.flagctl,
the same default cmd/flagctl uses.

  up/down, j/k   move the selection
  /              filter keys
  t, +/-, d      toggle, increment/decrement, delete
  u, ctrl+r      undo, redo
  q, ctrl+c      quit`)
}

func openStore(dir string) (*flagkit.Store, error) {
	backend, err := persist.NewFileBackend(dir)
	if err != nil {
		return nil, fmt.Errorf("open store directory: %w", err)
	}
	cfg := flagkit.DefaultConfig()
	cfg.Persist = &flagkit.PersistConfig{Backend: backend, Key: "flags", AutoSave: true}
	return flagkit.New(cfg)
}
