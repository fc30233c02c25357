package loader

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// Source says where the raw data of a snapshot came from.
type Source string

const (
	SourceFetch Source = "fetch"
	SourceCache Source = "cache"
)

// IngestStats counts what was lost between the upstream API and the index.
type IngestStats struct {
	StationsDropped    int  `json:"stationsDropped"`
	ConnectionsDropped int  `json:"connectionsDropped"`
	StationsPartial    bool `json:"stationsPartial,omitempty"`
	ConnectionsPartial bool `json:"connectionsPartial,omitempty"`
	ConnectionsFailed  bool `json:"connectionsFailed,omitempty"`
}

// Complete reports whether every dataset was fetched in full.
func (s IngestStats) Complete() bool {
	return !s.StationsPartial && !s.ConnectionsPartial && !s.ConnectionsFailed
}

// Snapshot is the immutable product of one load cycle.
type Snapshot struct {
	CycleID  string
	Tag      string
	LoadedAt time.Time
	Source   Source

	Stations    []stations.Station
	Index       *stations.Index
	Connections []connections.Connection
	Resolution  connections.Result
	Aggregate   aggregate.Result
	Stats       aggregate.Stats
	Ingest      IngestStats
	Warnings    []string
}

// Build derives the index, resolution and aggregates from raw data.
// The inputs are not modified.
func Build(list []stations.Station, conns []connections.Connection, allowPartial bool, warnings *connections.WarningAggregator) *Snapshot {
	idx := stations.NewIndex(list)
	res := connections.NewResolver(idx, allowPartial).ResolveAll(conns, warnings)
	agg := aggregate.Aggregate(res.Resolved)
	return &Snapshot{
		Stations:    idx.Stations(),
		Index:       idx,
		Connections: conns,
		Resolution:  res,
		Aggregate:   agg,
		Stats:       aggregate.ComputeStats(len(conns), len(conns), len(res.Resolved), list, agg),
	}
}

// View is a filtered projection of a snapshot.
type View struct {
	Filter aggregate.Filter
	Pairs  []aggregate.Pair
	Counts aggregate.Counts
	Stats  aggregate.Stats
}

// View aggregates only the connections passing f. The zero filter
// returns the snapshot's own aggregates.
func (s *Snapshot) View(f aggregate.Filter) View {
	if f.IsZero() {
		return View{Filter: f, Pairs: s.Aggregate.Pairs, Counts: s.Aggregate.Counts, Stats: s.Stats}
	}
	filtered := f.Apply(s.Connections)
	resolved := f.ApplyResolved(s.Resolution.Resolved)
	agg := aggregate.Aggregate(resolved)
	return View{
		Filter: f,
		Pairs:  agg.Pairs,
		Counts: agg.Counts,
		Stats:  aggregate.ComputeStats(len(s.Connections), len(filtered), len(resolved), s.Stations, agg),
	}
}

// Options lists the distinct endpoint names for filter selection.
func (s *Snapshot) Options() aggregate.Options {
	return aggregate.Endpoints(s.Connections)
}

// Summary is the single user-visible status line of the cycle.
func (s *Snapshot) Summary() string {
	if s == nil {
		return "no data loaded"
	}
	return fmt.Sprintf("loaded %d stations and %d connections", len(s.Stations), len(s.Connections))
}
