/*
Package stations holds the station model, the station-name normalizer and
the in-memory station index used to reconcile free-text station references.

# Keys

A station is identified by its UIC code when the upstream record carries
one, and by its normalized name otherwise:

	s := stations.Station{Name: "Gare de Lyon", UICCode: "87686006"}
	s.Key() // "87686006"

	stations.Normalize("Gare de Lyon") // "lyon"

# Index

The index is built once per load cycle and is read-only afterwards:

	idx := stations.NewIndex(list)
	st, ok := idx.Lookup("87686006")
	st, match, ok := idx.ResolveByName("PARIS (intramuros)")

Name registration is first-write-wins. Iteration order is insertion order,
which keeps partial (first-token) matches deterministic.
*/
package stations
