package aggregate

import "github.com/theoremus-urban-solutions/tgvmax-map/stations"

// Stats is the single summary shown to users for a (possibly filtered) view.
type Stats struct {
	TotalConnections      int     `json:"totalConnections"`
	FilteredConnections   int     `json:"filteredConnections"`
	ResolvedConnections   int     `json:"resolvedConnections"`
	UnresolvedConnections int     `json:"unresolvedConnections"`
	Pairs                 int     `json:"pairs"`
	Stations              int     `json:"stations"`
	ActiveStations        int     `json:"activeStations"`
	FilterRate            float64 `json:"filterRate"` // percent of total kept by the filter
}

// ComputeStats summarizes a view. total and filtered are raw connection
// counts before resolution; resolved is the number that entered agg.
func ComputeStats(total, filtered, resolved int, list []stations.Station, agg Result) Stats {
	s := Stats{
		TotalConnections:      total,
		FilteredConnections:   filtered,
		ResolvedConnections:   resolved,
		UnresolvedConnections: filtered - resolved,
		Pairs:                 len(agg.Pairs),
		Stations:              len(list),
	}
	seen := map[string]struct{}{}
	for _, st := range list {
		k := st.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if agg.Counts[k] > 0 {
			s.ActiveStations++
		}
	}
	if total > 0 {
		s.FilterRate = float64(filtered) / float64(total) * 100
	}
	return s
}

// MarkerRadius sizes a station marker from its segment, enlarged when the
// station has at least one connection.
func MarkerRadius(seg stations.Segment, connected bool) int {
	r := 6
	switch seg {
	case stations.SegmentA:
		r = 10
	case stations.SegmentB:
		r = 8
	}
	if connected {
		r += 2
	}
	return r
}
