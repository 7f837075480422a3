// Package notify implements the subscriber pipeline: global and per-key
// subscriber lists, snapshot-on-delivery semantics, idempotent
// deregistration, and containment of panicking subscribers.
package notify

import (
	"fmt"
	"os"

	"github.com/flagkit/flagkit/pkg/flagtype"
)

// Event is one (key, old, new) change delivered to subscribers. Present
// distinguishes Absent old/new values (e.g. a freshly created key has no
// OldPresent).
type Event struct {
	Key        string
	Old        flagtype.Value
	OldPresent bool
	New        flagtype.Value
	NewPresent bool
}

// Callback is a subscriber function. It receives the event that triggered
// it.
type Callback func(Event)

// Deregister removes a subscriber. Second and later calls are no-ops.
type Deregister func()

// Logger is the diagnostic sink for contained subscriber panics.
// Compute-function failures are not logged. The default implementation writes to stderr with fmt.Fprintf,
// matching this codebase's ambient lack of a structured-logging dependency.
type Logger interface {
	Logf(format string, args ...any)
}

// StderrLogger is the default Logger.
type StderrLogger struct{}

// Logf implements Logger.
func (StderrLogger) Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[flagkit] "+format+"\n", args...)
}

type subscriber struct {
	id      uint64
	active  bool
	keyed   bool
	key     string
	handler Callback
}

// Pipeline owns the global subscriber list and the per-key subscriber
// lists. It is not safe for concurrent use, matching the rest of this
// module's single-threaded cooperative model.
type Pipeline struct {
	log      Logger
	onError  func(key string, recovered any)
	nextID   uint64
	global   []*subscriber
	perKey   map[string][]*subscriber
}

// New returns an empty Pipeline. A nil Logger defaults to StderrLogger.
// onError, when non-nil, is additionally invoked for every contained
// subscriber panic, in the same OnError-callback shape the teacher's
// MergeOptions exposes (pkg/hive/merge.go).
func New(log Logger, onError func(key string, recovered any)) *Pipeline {
	if log == nil {
		log = StderrLogger{}
	}
	return &Pipeline{log: log, onError: onError, perKey: make(map[string][]*subscriber)}
}

// Subscribe registers a global subscriber, fired once per changed key
// across every mutation. Returns an idempotent deregister handle.
func (p *Pipeline) Subscribe(cb Callback) Deregister {
	s := &subscriber{id: p.nextID, active: true, handler: cb}
	p.nextID++
	p.global = append(p.global, s)
	return func() { s.active = false }
}

// SubscribeKey registers a subscriber scoped to key. Returns an idempotent
// deregister handle.
func (p *Pipeline) SubscribeKey(key string, cb Callback) Deregister {
	s := &subscriber{id: p.nextID, active: true, keyed: true, key: key, handler: cb}
	p.nextID++
	p.perKey[key] = append(p.perKey[key], s)
	return func() { s.active = false }
}

// Dispatch delivers events in the order given. For each event, per-key
// subscribers for that key fire first, then the global list fires once for
// that key. This is the deterministic ordering spec.md §4.D leaves open
// among consistent choices (documented in SPEC_FULL.md §9).
//
// Delivery iterates over a copy of each list taken at the moment delivery
// begins for that list, so subscribers added mid-delivery are not invoked
// for the current event (snapshot rule, spec.md §4.D). A subscriber that
// panics is logged and skipped; delivery continues with the next
// subscriber.
func (p *Pipeline) Dispatch(events []Event) {
	for _, ev := range events {
		p.DispatchPerKeyOnly([]Event{ev})

		globalSnapshot := append([]*subscriber(nil), p.global...)
		p.deliver(globalSnapshot, ev)
	}
}

// DispatchPerKeyOnly delivers events to per-key subscribers only, skipping
// the global list. Used by Dispatch for its per-key half and by
// batch/setMany (which replace per-key-scoped global delivery with a single
// synthetic event). Clear skips per-key delivery entirely and never calls
// this method.
func (p *Pipeline) DispatchPerKeyOnly(events []Event) {
	for _, ev := range events {
		perKeySnapshot := append([]*subscriber(nil), p.perKey[ev.Key]...)
		p.deliver(perKeySnapshot, ev)
	}
}

// DispatchGlobalSynthetic delivers exactly one event, carrying the given
// reserved key and no value payload, to global subscribers only. Used for
// the __batch__, __setMany__, and __clear__ synthetic events of spec.md §6.
func (p *Pipeline) DispatchGlobalSynthetic(key string) {
	ev := Event{Key: key}
	globalSnapshot := append([]*subscriber(nil), p.global...)
	p.deliver(globalSnapshot, ev)
}

func (p *Pipeline) deliver(subs []*subscriber, ev Event) {
	for _, s := range subs {
		if !s.active {
			continue
		}
		p.invoke(s, ev)
	}
}

func (p *Pipeline) invoke(s *subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Logf("subscriber for key %q panicked: %v", ev.Key, r)
			if p.onError != nil {
				p.onError(ev.Key, r)
			}
		}
	}()
	s.handler(ev)
}
