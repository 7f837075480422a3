// Package engine implements the mutation engine: the single entry point
// through which every public store operation flows, enforcing the
// invariants of spec.md §3 and coordinating the registry, the computed
// graph, the notification pipeline, the history log, and the persistence
// hook.
//
// Modeled on hive/tx.Manager's Begin/Commit/Rollback transaction protocol:
// Manager.Commit documents its steps as a numbered list and is explicitly
// "NOT thread-safe. Only one goroutine should use it at a time" — the same
// contract this engine carries, generalized from one flush-and-checksum
// transaction to an arbitrary sequence of staged value changes.
package engine

import (
	"github.com/flagkit/flagkit/internal/computed"
	"github.com/flagkit/flagkit/internal/history"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/internal/persist"
	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/flagtype"
	pkgpersist "github.com/flagkit/flagkit/pkg/persist"
)

// change is one staged (key, old, new) tuple, used internally to build the
// change sets described in spec.md's "Data flow" and §4.C.
type change struct {
	key        string
	old        flagtype.Value
	oldPresent bool
	new        flagtype.Value
	newPresent bool
}

// PersistConfig configures the autosave hook (component G).
type PersistConfig struct {
	Backend  pkgpersist.Backend
	Key      string
	AutoSave bool
}

// Engine is the mutation engine. It is not safe for concurrent use.
type Engine struct {
	reg      *registry.Registry
	graph    *computed.Graph
	pipeline *notify.Pipeline
	hist     *history.Log // nil when history is disabled

	persist     pkgpersist.Backend
	persistKey  string
	autoSave    bool

	batching  bool
	batchAgg  map[string]*change
	batchKeys []string // first-touch order within the current batch
}

// Config bundles construction-time options.
type Config struct {
	Initial    map[string]flagtype.Value
	Persist    *PersistConfig
	MaxHistory int  // bound used when HistoryOn is true; <= 0 means history.DefaultMaxHistory
	HistoryOn  bool
	Logger     notify.Logger
	// OnSubscriberError, when non-nil, is invoked for every contained
	// subscriber panic in addition to Logger.
	OnSubscriberError func(key string, recovered any)
}

// New constructs an Engine from cfg. If cfg.Persist is set and a blob
// already exists at the configured key, it is decoded and merged over
// cfg.Initial per spec.md §4.G; otherwise cfg.Initial is used as-is.
func New(cfg Config) (*Engine, error) {
	reg := registry.New()

	values := cfg.Initial
	var backend pkgpersist.Backend
	var persistKey string
	var autoSave bool
	if cfg.Persist != nil {
		backend = cfg.Persist.Backend
		persistKey = cfg.Persist.Key
		if persistKey == "" {
			persistKey = "default"
		}
		autoSave = cfg.Persist.AutoSave
		if blob, ok, err := backend.Read(persistKey); err != nil {
			return nil, err
		} else if ok {
			decoded := persist.Decode(blob)
			merged := make(map[string]flagtype.Value, len(values)+len(decoded))
			for k, v := range values {
				merged[k] = v
			}
			for k, v := range decoded {
				merged[k] = v
			}
			values = merged
		}
	}
	for k, v := range values {
		reg.SetPlain(k, v)
	}

	var hist *history.Log
	if cfg.HistoryOn {
		hist = history.New(cfg.MaxHistory)
	}

	return &Engine{
		reg:        reg,
		graph:      computed.New(reg),
		pipeline:   notify.New(cfg.Logger, cfg.OnSubscriberError),
		hist:       hist,
		persist:    backend,
		persistKey: persistKey,
		autoSave:   autoSave,
	}, nil
}

// Get, Has, Keys, All delegate straight to the registry (component B);
// reads never go through the mutation pipeline.
func (e *Engine) Get(key string) (flagtype.Value, bool) { return e.reg.Get(key) }
func (e *Engine) Has(key string) bool                   { return e.reg.Has(key) }
func (e *Engine) Keys() []string                        { return e.reg.Keys() }
func (e *Engine) All() map[string]flagtype.Value         { return e.reg.All() }

// Subscribe and SubscribeKey delegate to the notification pipeline.
func (e *Engine) Subscribe(cb notify.Callback) notify.Deregister { return e.pipeline.Subscribe(cb) }
func (e *Engine) SubscribeKey(key string, cb notify.Callback) notify.Deregister {
	return e.pipeline.SubscribeKey(key, cb)
}
