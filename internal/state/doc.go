// Package state tracks catalog health for the ebs terminal client.
//
// # Overview
//
// The catalog client records the outcome of every HTTP call here, and the UI
// header reads snapshots to decide whether to show an "offline" hint. Search
// results themselves never flow through this package; they travel through the
// results pipeline.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Record(): Acquires write lock (exclusive access)
//   - Snapshot(): Acquires read lock (concurrent reads allowed)
//
// Fetch goroutines record concurrently; the UI reads on every render.
//
// # Record Semantics
//
//	store.Record(nil)
//	→ Requests++
//	→ LastError = nil
//	→ ConsecutiveFailures = 0
//
//	store.Record(err)
//	→ Requests++, Failures++
//	→ LastError = err
//	→ ConsecutiveFailures++
//
// Snapshot copies the error value so callers cannot observe later updates.
//
// # Testing Considerations
//
// The zero Store is ready to use, and a nil *Store ignores Record calls and
// returns a zero Snapshot. Tests that do not care about health can pass nil.
package state
