package aggregate

import (
	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// MaxWeight caps the line weight of a pair.
const MaxWeight = 8.0

const pairKeySep = "|"

// Pair aggregates every resolved connection between the same two stations.
type Pair struct {
	Key         string                 `json:"key"`
	From        stations.Station       `json:"from"`
	To          stations.Station       `json:"to"`
	Connections []connections.Resolved `json:"connections"`
	Weight      float64                `json:"weight"`
}

// Counts maps a station key to the number of connections touching it.
type Counts map[string]int

// Total is the sum of all station counts.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Result holds the aggregates derived from one set of resolved connections.
type Result struct {
	Pairs  []Pair `json:"pairs"`
	Counts Counts `json:"counts"`
}

// PairKey returns the direction-independent key of two station keys.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + pairKeySep + b
}

// Weight is the line weight for a pair with n connections: n+2 capped at MaxWeight.
func Weight(n int) float64 {
	if n <= 0 {
		return 0
	}
	w := float64(n + 2)
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}

// Aggregate groups resolved connections by unordered station pair. Pairs are
// returned in first-seen order; each pair keeps its connections in input order.
// From is the origin of the first connection seen for that pair.
func Aggregate(resolved []connections.Resolved) Result {
	res := Result{Pairs: []Pair{}, Counts: Counts{}}
	pos := map[string]int{}
	for _, rc := range resolved {
		ok, dk := rc.Origin.Key(), rc.Destination.Key()
		key := PairKey(ok, dk)
		i, seen := pos[key]
		if !seen {
			i = len(res.Pairs)
			pos[key] = i
			res.Pairs = append(res.Pairs, Pair{Key: key, From: rc.Origin, To: rc.Destination})
		}
		res.Pairs[i].Connections = append(res.Pairs[i].Connections, rc)
		res.Counts[ok]++
		res.Counts[dk]++
	}
	for i := range res.Pairs {
		res.Pairs[i].Weight = Weight(len(res.Pairs[i].Connections))
	}
	return res
}
