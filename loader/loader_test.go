package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/cache"
	"github.com/theoremus-urban-solutions/tgvmax-map/config"
	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
	"github.com/theoremus-urban-solutions/tgvmax-map/opendata"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

type fakeFetcher struct {
	stations    []stations.Station
	stationsErr error
	conns       []connections.Connection
	connsErr    error

	stationCalls int
	connCalls    int
	window       opendata.Window
}

func (f *fakeFetcher) FetchStations(_ context.Context, _ string, _, _ int) ([]stations.Station, int, error) {
	f.stationCalls++
	return f.stations, 0, f.stationsErr
}

func (f *fakeFetcher) FetchConnections(_ context.Context, _ string, w opendata.Window, _, _ int) ([]connections.Connection, int, error) {
	f.connCalls++
	f.window = w
	return f.conns, 1, f.connsErr
}

func sampleStations() []stations.Station {
	return []stations.Station{
		{Name: "Paris Gare de Lyon", Lat: 48.84, Lon: 2.37, UICCode: "87686006", Segment: stations.SegmentA},
		{Name: "Lyon Part Dieu", Lat: 45.76, Lon: 4.86, UICCode: "87723197", Segment: stations.SegmentA},
		{Name: "Marseille Saint-Charles", Lat: 43.30, Lon: 5.38, Segment: stations.SegmentA},
	}
}

func sampleConnections() []connections.Connection {
	return []connections.Connection{
		{OriginName: "PARIS GARE DE LYON", DestinationName: "LYON PART DIEU", OriginUIC: "87686006", DestinationUIC: "87723197", Date: "2024-05-01", TrainNumber: "6601"},
		{OriginName: "LYON PART DIEU", DestinationName: "PARIS GARE DE LYON", Date: "2024-05-01", TrainNumber: "6602"},
		{OriginName: "MARSEILLE (intramuros)", DestinationName: "LYON PART DIEU", Date: "2024-05-02", TrainNumber: "6100"},
		{OriginName: "BREST", DestinationName: "LYON PART DIEU", Date: "2024-05-02", TrainNumber: "8000"},
	}
}

func testOptions() Options {
	return Options{StationsDataset: "gares-de-voyageurs", ConnectionsDataset: "tgvmax", PageSize: 100, StationPages: 5, ConnectionPages: 20, WindowDays: 30, AllowPartial: true}
}

func newTestLoader(f Fetcher, store cache.Store, opts Options) *Loader {
	l := New(f, store, opts, nil, metrics.NewRegistry())
	l.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return l
}

func TestLoad_ColdFetch(t *testing.T) {
	f := &fakeFetcher{stations: sampleStations(), conns: sampleConnections()}
	store := cache.NewMemoryStore(time.Hour)

	snap, err := newTestLoader(f, store, testOptions()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceFetch, snap.Source)
	assert.Equal(t, "tgvmax:2024-05-01", snap.Tag)
	assert.NotEmpty(t, snap.CycleID)
	assert.Equal(t, opendata.Window{From: "2024-05-01", To: "2024-05-31"}, f.window)

	assert.Len(t, snap.Resolution.Resolved, 3)
	assert.Equal(t, 1, snap.Resolution.Unresolved)
	require.Len(t, snap.Aggregate.Pairs, 2)
	assert.Len(t, snap.Aggregate.Pairs[0].Connections, 2)
	assert.Equal(t, 3, snap.Aggregate.Counts["87723197"])
	assert.Equal(t, 1, snap.Ingest.ConnectionsDropped)
	assert.NotEmpty(t, snap.Warnings)
	assert.Equal(t, "loaded 3 stations and 4 connections", snap.Summary())

	_, err = store.Get(context.Background(), "tgvmax:2024-05-01")
	assert.NoError(t, err, "complete cold load should be cached")
}

func TestLoad_CacheHitRebuildsSameAggregates(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour)
	cold, err := newTestLoader(&fakeFetcher{stations: sampleStations(), conns: sampleConnections()}, store, testOptions()).Load(context.Background())
	require.NoError(t, err)

	f := &fakeFetcher{stationsErr: errors.New("must not be called")}
	warm, err := newTestLoader(f, store, testOptions()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SourceCache, warm.Source)
	assert.Zero(t, f.stationCalls)
	assert.Zero(t, f.connCalls)
	assert.Equal(t, cold.Aggregate.Counts, warm.Aggregate.Counts)
	require.Len(t, warm.Aggregate.Pairs, len(cold.Aggregate.Pairs))
	for i := range cold.Aggregate.Pairs {
		assert.Equal(t, cold.Aggregate.Pairs[i].Key, warm.Aggregate.Pairs[i].Key)
		assert.Equal(t, cold.Aggregate.Pairs[i].Weight, warm.Aggregate.Pairs[i].Weight)
	}
	assert.NotEqual(t, cold.CycleID, warm.CycleID)
}

func TestLoad_ConnectionFailureIsNotFatal(t *testing.T) {
	f := &fakeFetcher{stations: sampleStations(), connsErr: errors.New("HTTP 500")}
	store := cache.NewMemoryStore(time.Hour)

	snap, err := newTestLoader(f, store, testOptions()).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, snap.Index.Len())
	assert.Empty(t, snap.Aggregate.Pairs)
	assert.True(t, snap.Ingest.ConnectionsFailed)

	_, err = store.Get(context.Background(), snap.Tag)
	assert.ErrorIs(t, err, cache.ErrMiss, "incomplete load must not be cached")
}

func TestLoad_PartialConnectionsKept(t *testing.T) {
	f := &fakeFetcher{
		stations: sampleStations(),
		conns:    sampleConnections()[:2],
		connsErr: &opendata.PartialError{Dataset: "tgvmax", Page: 2, Records: 2, Err: errors.New("HTTP 502")},
	}

	snap, err := newTestLoader(f, nil, testOptions()).Load(context.Background())

	require.NoError(t, err)
	assert.True(t, snap.Ingest.ConnectionsPartial)
	assert.Len(t, snap.Aggregate.Pairs, 1)
}

func TestLoad_StationFailureIsFatal(t *testing.T) {
	f := &fakeFetcher{stationsErr: errors.New("HTTP 503"), conns: sampleConnections()}

	_, err := newTestLoader(f, nil, testOptions()).Load(context.Background())

	assert.ErrorIs(t, err, ErrNoStations)
	assert.Zero(t, f.connCalls)
}

func TestLoad_NoStationsIsFatal(t *testing.T) {
	f := &fakeFetcher{}

	_, err := newTestLoader(f, nil, testOptions()).Load(context.Background())

	assert.ErrorIs(t, err, ErrNoStations)
}

func TestLoad_PartialMatchesRejected(t *testing.T) {
	opts := testOptions()
	opts.AllowPartial = false
	f := &fakeFetcher{stations: sampleStations(), conns: sampleConnections()}

	snap, err := newTestLoader(f, nil, opts).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, snap.Resolution.Resolved, 2, "MARSEILLE (intramuros) only matches by first token")
	assert.Equal(t, 2, snap.Resolution.Unresolved)
}

func TestReload_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	var h Holder
	f := &fakeFetcher{stations: sampleStations(), conns: sampleConnections()}
	l := newTestLoader(f, nil, testOptions())

	require.NoError(t, l.Reload(context.Background(), &h))
	first := h.Load()
	require.NotNil(t, first)

	f.stationsErr = errors.New("HTTP 503")
	err := l.Reload(context.Background(), &h)

	require.Error(t, err)
	assert.Same(t, first, h.Load())
	at, lastErr := h.LastFailure()
	assert.ErrorIs(t, lastErr, ErrNoStations)
	assert.False(t, at.IsZero())
	assert.Contains(t, h.Summary(), "no usable stations")

	f.stationsErr = nil
	require.NoError(t, l.Reload(context.Background(), &h))
	assert.NotSame(t, first, h.Load())
	assert.Equal(t, "loaded 3 stations and 4 connections", h.Summary())
}

func TestHolder_Empty(t *testing.T) {
	var h Holder
	assert.Nil(t, h.Load())
	assert.Equal(t, "no data loaded", h.Summary())
}

func TestSnapshot_View(t *testing.T) {
	snap := Build(sampleStations(), sampleConnections(), true, nil)

	all := snap.View(aggregate.Filter{})
	assert.Len(t, all.Pairs, 2)
	assert.Equal(t, 4, all.Stats.TotalConnections)

	v := snap.View(aggregate.Filter{Date: "2024-05-02"})
	assert.Len(t, v.Pairs, 1)
	assert.Equal(t, 4, v.Stats.TotalConnections)
	assert.Equal(t, 2, v.Stats.FilteredConnections)
	assert.Equal(t, 1, v.Stats.ResolvedConnections)
	assert.Equal(t, 1, v.Stats.UnresolvedConnections)
	assert.InDelta(t, 50.0, v.Stats.FilterRate, 1e-9)

	opts := snap.Options()
	assert.Equal(t, []string{"BREST", "LYON PART DIEU", "MARSEILLE (intramuros)", "PARIS GARE DE LYON"}, opts.Origins)
}

func TestOptionsFromConfig(t *testing.T) {
	f := false
	cfg := testConfig()
	cfg.Matching.AllowPartial = &f

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "tgvmax", opts.ConnectionsDataset)
	assert.Equal(t, 30, opts.WindowDays)
	assert.False(t, opts.AllowPartial)
}

func testConfig() config.AppConfig {
	return config.Default()
}
