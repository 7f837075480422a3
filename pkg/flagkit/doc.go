// Package flagkit is the public facade over the reactive flag store: a
// Store bundling the registry, mutation engine, notification pipeline,
// computed graph, history log, and persistence adapter behind the
// operations of spec.md §6, plus a Namespace prefixing facade and a
// mutex-wrapped SyncStore for concurrent callers.
//
// Modeled on the teacher's pkg/hive constructor-and-options layout
// (factory.go delegating to internal packages, options.go's
// DefaultOptions() convention): New is the Store constructor, Config
// bundles every construction-time choice, and every operation beyond
// construction delegates straight into internal/engine.
package flagkit
