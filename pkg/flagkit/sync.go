package flagkit

import (
	"sync"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

// SyncStore wraps a Store's entire public surface in a single sync.Mutex,
// per design note §9: "Target languages with true concurrency should wrap
// the entire public surface in a single mutex to preserve the
// sequential-consistency guarantees". Store itself carries no mutex and
// remains the primary, single-threaded object; SyncStore is additive for
// callers that need to share one store across goroutines.
type SyncStore struct {
	mu    sync.Mutex
	store *Store
}

// NewSync constructs a SyncStore from cfg.
func NewSync(cfg Config) (*SyncStore, error) {
	store, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &SyncStore{store: store}, nil
}

// Get returns key's current value and whether it is present.
func (s *SyncStore) Get(key string) (flagtype.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(key)
}

// Has reports whether key holds any entry, plain or computed.
func (s *SyncStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Has(key)
}

// Keys enumerates every plain and computed key.
func (s *SyncStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Keys()
}

// All returns a snapshot mapping of every present key.
func (s *SyncStore) All() map[string]flagtype.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Set assigns v to key, creating it if absent.
func (s *SyncStore) Set(key string, v flagtype.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(key, v)
}

// Delete removes key's plain entry.
func (s *SyncStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(key)
}

// Toggle flips a boolean entry, creating it as true if absent.
func (s *SyncStore) Toggle(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Toggle(key)
}

// Increment adds delta (default 1) to a numeric entry.
func (s *SyncStore) Increment(key string, delta ...float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Increment(key, delta...)
}

// Decrement subtracts delta (default 1) from a numeric entry.
func (s *SyncStore) Decrement(key string, delta ...float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Decrement(key, delta...)
}

// SetMany applies every pair as a single change set.
func (s *SyncStore) SetMany(values map[string]flagtype.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetMany(values)
}

// Clear removes every plain entry.
func (s *SyncStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear()
}

// Batch runs thunk with the store locked for its entire duration. The lock
// is a sync.Mutex, which is not reentrant: a call from within thunk back
// into this same SyncStore deadlocks.
func (s *SyncStore) Batch(thunk func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Batch(thunk)
}

// Compute registers key as a computed entry deriving its value from deps.
func (s *SyncStore) Compute(key string, deps []string, fn ComputeFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Compute(key, deps, fn)
}

// Check evaluates a condition expression against this store's current
// values.
func (s *SyncStore) Check(expr string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Check(expr)
}

// Subscribe registers a global subscriber. Callbacks run synchronously
// inside whichever SyncStore method triggered them, with the lock already
// held: a callback must not call back into this same SyncStore (it will
// deadlock on sync.Mutex, which is not reentrant). A callback that needs to
// mutate the store back should do so through the underlying Store via
// Namespace or by holding its own reference, accepting the single-threaded
// reentrancy model Store itself documents.
func (s *SyncStore) Subscribe(cb Callback) Deregister {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Subscribe(cb)
}

// SubscribeKey registers a subscriber scoped to key.
func (s *SyncStore) SubscribeKey(key string, cb Callback) Deregister {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SubscribeKey(key, cb)
}

// CanUndo reports whether a step is available to undo.
func (s *SyncStore) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CanUndo()
}

// CanRedo reports whether a step is available to redo.
func (s *SyncStore) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CanRedo()
}

// Undo reverses the most recently applied step.
func (s *SyncStore) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Undo()
}

// Redo reapplies the most recently undone step.
func (s *SyncStore) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Redo()
}

// ClearHistory discards every recorded step.
func (s *SyncStore) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearHistory()
}

// Namespace returns a prefixing facade over the underlying Store. The
// returned Namespace is not itself lock-protected; callers mixing a
// SyncStore with its Namespace view across goroutines must synchronize
// externally.
func (s *SyncStore) Namespace(prefix string) *Namespace {
	return s.store.Namespace(prefix)
}
