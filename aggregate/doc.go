// Package aggregate groups resolved connections into undirected station
// pairs and per-station connection counts for the map front-end.
//
// A pair key is the two endpoint station keys sorted and joined, so A->B
// and B->A always land in the same Pair. Every resolved connection adds one
// to the count of each endpoint, which makes the sum of all counts exactly
// twice the number of aggregated connections.
//
// The package also carries the presentation-facing derivations that only
// depend on aggregates: line Weight, station MarkerRadius, connection
// Filter, and the Stats summary.
package aggregate
