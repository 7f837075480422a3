package flagkit

import (
	"github.com/flagkit/flagkit/internal/history"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/pkg/flagtype"
	"github.com/flagkit/flagkit/pkg/persist"
)

// Logger is the diagnostic sink for contained subscriber panics,
// re-exported from internal/notify so callers never need to
// import an internal package to supply their own.
type Logger = notify.Logger

// PersistConfig enables the persistence adapter (component G).
type PersistConfig struct {
	// Backend is the abstract blob store. Required when Persist is set.
	Backend persist.Backend
	// Key identifies this store's blob within Backend. Defaults to
	// "default" when empty.
	Key string
	// AutoSave serializes and writes after every mutation that changes
	// plain state. Its zero value is false: a PersistConfig that leaves it
	// unset loads the stored blob but never writes automatically.
	AutoSave bool
}

// HistoryConfig enables the undo/redo log (component F).
type HistoryConfig struct {
	// MaxHistory bounds the number of retained steps. Defaults to
	// history.DefaultMaxHistory (100) when <= 0.
	MaxHistory int
}

// Config bundles every construction-time choice for a Store.
type Config struct {
	// Initial seeds the plain registry before any persisted blob is
	// merged over it.
	Initial map[string]flagtype.Value
	// Persist enables persistence when non-nil.
	Persist *PersistConfig
	// History enables undo/redo when non-nil.
	History *HistoryConfig
	// Logger receives diagnostics for contained subscriber panics;
	// compute-function failures are not logged. Defaults to
	// notify.StderrLogger when nil.
	Logger Logger
	// OnError, when set, additionally receives a callback for every
	// contained subscriber panic, in the same shape as the teacher's
	// MergeOptions.OnError: (kind, key, err). kind is always "subscriber" —
	// compute-function failures are a silent containment boundary per
	// spec.md §4.E and are never surfaced here either.
	OnError func(kind, key string, err error)
}

// DefaultConfig returns a Config with history enabled at the default bound
// and no persistence, mirroring hive/builder.DefaultOptions()'s
// zero-value-safe-defaults convention.
func DefaultConfig() Config {
	return Config{
		History: &HistoryConfig{MaxHistory: history.DefaultMaxHistory},
	}
}
