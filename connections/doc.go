// Package connections models TGV Max connection records and resolves their
// free-text origin and destination against a stations.Index.
//
// Resolution is per endpoint: a UIC code carried by the record is looked up
// first and is authoritative; otherwise the endpoint name is resolved by
// exact normalized name, then by first-token partial match. The weakest of
// the two endpoint matches is the confidence of the resolved connection, so
// consumers can tell exact joins from fuzzy ones.
//
// A connection resolves only when both endpoints resolve. Unresolved
// connections are counted and reported through a WarningAggregator, never
// returned individually.
package connections
