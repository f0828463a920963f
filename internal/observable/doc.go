// Package observable holds UI-bound state that broadcasts a full snapshot on every change.
//
// # Wrappers
//
//   - [List] : an ordered collection keyed by a caller-supplied function; supports replace-all, upsert and remove
//   - [Single] : zero-or-one current item, used for "selected" and "draft" state
//
// # Emission
//
// Observers register with Subscribe, which returns an unsubscribe func.
// A new observer immediately receives the current snapshot, then one snapshot per mutation.
// Every mutation emits synchronously to all current observers in subscription order,
// so an observer sees either the previous snapshot or the new one, never a partial update.
//
// Snapshots are copies: observers may keep or modify the slice they receive without affecting the wrapper.
//
// # Concurrency
//
// Mutations may come from any goroutine. They are serialized, and emissions from consecutive
// mutations are delivered in the order the mutations were applied.
// A new observer's replayed snapshot is delivered before any later emission.
//
// Observers may read the wrapper and call their own unsubscribe func from inside a callback.
// They must not mutate the wrapper or call Subscribe on it from inside a callback: both wait for the
// emission in progress and deadlock.
package observable
