package flagkit

import (
	"github.com/flagkit/flagkit/internal/engine"
	"github.com/flagkit/flagkit/internal/notify"
	"github.com/flagkit/flagkit/internal/registry"
	"github.com/flagkit/flagkit/pkg/condition"
	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Arg is a positional argument passed to a computed function: a
// dependency's current value, or Absent.
type Arg struct {
	Value   flagtype.Value
	Present bool
}

// ComputeFunc derives a computed key's value from its declared
// dependencies' current values, supplied positionally.
type ComputeFunc func(args []Arg) flagtype.Value

// Deregister removes a subscriber. Second and later calls are no-ops.
type Deregister func()

// Event describes one (key, old, new) change delivered to a subscriber.
type Event struct {
	Key        string
	Old        flagtype.Value
	OldPresent bool
	New        flagtype.Value
	NewPresent bool
}

// Callback is a subscriber function.
type Callback func(Event)

// Store is the public facade over a flag store's registry, mutation
// engine, notification pipeline, computed graph, history log, and
// persistence adapter. It is not safe for concurrent use from multiple
// goroutines without external synchronization — see SyncStore.
type Store struct {
	eng *engine.Engine
}

// New constructs a Store from cfg.
func New(cfg Config) (*Store, error) {
	var persistCfg *engine.PersistConfig
	if cfg.Persist != nil {
		persistCfg = &engine.PersistConfig{
			Backend:  cfg.Persist.Backend,
			Key:      cfg.Persist.Key,
			AutoSave: cfg.Persist.AutoSave,
		}
	}

	maxHistory := 0
	historyOn := cfg.History != nil
	if cfg.History != nil {
		maxHistory = cfg.History.MaxHistory
	}

	var onSubErr func(key string, recovered any)
	if cfg.OnError != nil {
		onErr := cfg.OnError
		onSubErr = func(key string, recovered any) {
			onErr("subscriber", key, asError(recovered))
		}
	}

	eng, err := engine.New(engine.Config{
		Initial:           cfg.Initial,
		Persist:           persistCfg,
		MaxHistory:        maxHistory,
		HistoryOn:         historyOn,
		Logger:            cfg.Logger,
		OnSubscriberError: onSubErr,
	})
	if err != nil {
		return nil, err
	}
	return &Store{eng: eng}, nil
}

func asError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return flagtype.NewValidationError("", "panic: "+toString(recovered))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "non-string panic value"
}

// Get returns key's current value and whether it is present.
func (s *Store) Get(key string) (flagtype.Value, bool) { return s.eng.Get(key) }

// Has reports whether key holds any entry, plain or computed.
func (s *Store) Has(key string) bool { return s.eng.Has(key) }

// Keys enumerates every plain and computed key.
func (s *Store) Keys() []string { return s.eng.Keys() }

// All returns a snapshot mapping of every present key.
func (s *Store) All() map[string]flagtype.Value { return s.eng.All() }

// Set assigns v to key, creating it if absent.
func (s *Store) Set(key string, v flagtype.Value) error { return s.eng.Set(key, v) }

// Delete removes key's plain entry.
func (s *Store) Delete(key string) error { return s.eng.Delete(key) }

// Toggle flips a boolean entry, creating it as true if absent.
func (s *Store) Toggle(key string) (bool, error) { return s.eng.Toggle(key) }

// Increment adds delta (default 1) to a numeric entry, creating it if
// absent.
func (s *Store) Increment(key string, delta ...float64) (float64, error) {
	return s.eng.Increment(key, deltaOrDefault(delta))
}

// Decrement subtracts delta (default 1) from a numeric entry, creating it
// if absent.
func (s *Store) Decrement(key string, delta ...float64) (float64, error) {
	return s.eng.Decrement(key, deltaOrDefault(delta))
}

func deltaOrDefault(delta []float64) float64 {
	if len(delta) == 0 {
		return 1
	}
	return delta[0]
}

// SetMany applies every pair as a single change set with one synthetic
// __setMany__ global event.
func (s *Store) SetMany(values map[string]flagtype.Value) error { return s.eng.SetMany(values) }

// Clear removes every plain entry.
func (s *Store) Clear() error { return s.eng.Clear() }

// Batch runs thunk with every inner mutation staged into one aggregate
// change set.
func (s *Store) Batch(thunk func() error) error { return s.eng.Batch(thunk) }

// Compute registers key as a computed entry deriving its value from deps
// via fn.
func (s *Store) Compute(key string, deps []string, fn ComputeFunc) error {
	return s.eng.Compute(key, deps, func(args []registry.Arg) flagtype.Value {
		converted := make([]Arg, len(args))
		for i, a := range args {
			converted[i] = Arg{Value: a.Value, Present: a.Present}
		}
		return fn(converted)
	})
}

// Check evaluates a condition expression against this store's current
// values.
func (s *Store) Check(expr string) (bool, error) {
	parsed, err := condition.Parse(expr)
	if err != nil {
		return false, err
	}
	return condition.Eval(parsed, s.lookup()), nil
}

func (s *Store) lookup() condition.Lookup {
	return func(name string) (flagtype.Value, bool) { return s.eng.Get(name) }
}

// Subscribe registers a global subscriber, fired once per changed key
// across every mutation.
func (s *Store) Subscribe(cb Callback) Deregister {
	return Deregister(s.eng.Subscribe(toNotifyCallback(cb)))
}

// SubscribeKey registers a subscriber scoped to key.
func (s *Store) SubscribeKey(key string, cb Callback) Deregister {
	return Deregister(s.eng.SubscribeKey(key, toNotifyCallback(cb)))
}

func toNotifyCallback(cb Callback) notify.Callback {
	return func(ev notify.Event) {
		cb(Event{Key: ev.Key, Old: ev.Old, OldPresent: ev.OldPresent, New: ev.New, NewPresent: ev.NewPresent})
	}
}

// CanUndo reports whether a step is available to undo.
func (s *Store) CanUndo() bool { return s.eng.CanUndo() }

// CanRedo reports whether a step is available to redo.
func (s *Store) CanRedo() bool { return s.eng.CanRedo() }

// Undo reverses the most recently applied step.
func (s *Store) Undo() (bool, error) { return s.eng.Undo() }

// Redo reapplies the most recently undone step.
func (s *Store) Redo() (bool, error) { return s.eng.Redo() }

// ClearHistory discards every recorded step without touching current
// values.
func (s *Store) ClearHistory() { s.eng.ClearHistory() }

// Namespace returns a prefixing facade scoped to prefix.
func (s *Store) Namespace(prefix string) *Namespace {
	return newNamespace(s, prefix)
}
