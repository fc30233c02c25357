// Package loader runs load cycles and publishes their results.
//
// A cycle tries the snapshot cache first, then fetches stations and
// connections one after the other, resolves connections against the
// freshly built station index and aggregates them into pairs. The
// product is an immutable *Snapshot handed to a Holder, which readers
// access without locks. A failed cycle never replaces the published
// snapshot.
package loader
