package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/tgvmax-map/cache"
	"github.com/theoremus-urban-solutions/tgvmax-map/config"
	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
	"github.com/theoremus-urban-solutions/tgvmax-map/opendata"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// ErrNoStations fails a cycle that could not produce any station.
var ErrNoStations = errors.New("no usable stations")

// Fetcher retrieves decoded datasets. *opendata.Pager implements it.
type Fetcher interface {
	FetchStations(ctx context.Context, dataset string, pageSize, maxPages int) ([]stations.Station, int, error)
	FetchConnections(ctx context.Context, dataset string, w opendata.Window, pageSize, maxPages int) ([]connections.Connection, int, error)
}

// Options are the per-cycle fetch and matching settings.
type Options struct {
	StationsDataset    string
	ConnectionsDataset string
	PageSize           int
	StationPages       int
	ConnectionPages    int
	WindowDays         int
	AllowPartial       bool
}

// OptionsFromConfig extracts cycle options from the application config.
func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		StationsDataset:    cfg.API.StationsDataset,
		ConnectionsDataset: cfg.API.ConnectionsDataset,
		PageSize:           cfg.Fetch.PageSize,
		StationPages:       cfg.Fetch.StationPages,
		ConnectionPages:    cfg.Fetch.ConnectionPages,
		WindowDays:         cfg.Window.Days,
		AllowPartial:       cfg.PartialMatching(),
	}
}

// Loader runs load cycles. It holds no per-cycle state and is safe to
// reuse, but cycles are expected to run one at a time.
type Loader struct {
	fetcher Fetcher
	store   cache.Store
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// New creates a loader. A nil store disables caching; nil logger and
// metrics are allowed.
func New(f Fetcher, store cache.Store, opts Options, logger *zap.Logger, m *metrics.Registry) *Loader {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Loader{fetcher: f, store: store, opts: opts, logger: internal.OrNop(logger), metrics: m, now: time.Now}
}

// Load runs one cycle and returns its snapshot without publishing it.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := l.now()
	id := uuid.NewString()
	tag := cache.Tag(start)
	log := l.logger.With(zap.String("cycle_id", id), zap.String("tag", tag))

	snap, err := l.load(ctx, log, tag, start)
	source := string(SourceFetch)
	if snap != nil {
		source = string(snap.Source)
	}
	l.metrics.RecordCycle(source, err, l.now().Sub(start))
	if err != nil {
		log.Error("load cycle failed", zap.Error(err))
		return nil, err
	}

	snap.CycleID = id
	snap.Tag = tag
	snap.LoadedAt = start
	log.Info(snap.Summary(),
		zap.String("source", source),
		zap.Int("pairs", len(snap.Aggregate.Pairs)),
		zap.Int("resolved", len(snap.Resolution.Resolved)),
		zap.Int("unresolved", snap.Resolution.Unresolved),
		zap.Duration("duration", l.now().Sub(start)))
	return snap, nil
}

// Reload runs one cycle and publishes it on success. On failure the
// error is recorded on h and the previous snapshot stays published.
func (l *Loader) Reload(ctx context.Context, h *Holder) error {
	snap, err := l.Load(ctx)
	if err != nil {
		h.Fail(err, l.now())
		return err
	}
	h.Publish(snap)
	l.metrics.RecordPublished(snap.LoadedAt, len(snap.Stations), len(snap.Aggregate.Pairs))
	return nil
}

func (l *Loader) load(ctx context.Context, log *zap.Logger, tag string, start time.Time) (*Snapshot, error) {
	if entry := l.cached(ctx, log, tag); entry != nil {
		snap := l.build(log, entry.Stations, entry.Connections)
		snap.Source = SourceCache
		return snap, nil
	}

	var ingest IngestStats

	list, dropped, err := l.fetcher.FetchStations(ctx, l.opts.StationsDataset, l.opts.PageSize, l.opts.StationPages)
	ingest.StationsDropped = dropped
	switch {
	case errors.Is(err, opendata.ErrPartial):
		ingest.StationsPartial = true
		log.Warn("station fetch incomplete", zap.String("dataset", l.opts.StationsDataset), zap.Error(err))
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrNoStations, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: dataset %s returned no station with a position", ErrNoStations, l.opts.StationsDataset)
	}

	window := opendata.NewWindow(start, l.opts.WindowDays)
	conns, dropped, err := l.fetcher.FetchConnections(ctx, l.opts.ConnectionsDataset, window, l.opts.PageSize, l.opts.ConnectionPages)
	ingest.ConnectionsDropped = dropped
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, opendata.ErrPartial):
		ingest.ConnectionsPartial = true
		log.Warn("connection fetch incomplete", zap.String("dataset", l.opts.ConnectionsDataset), zap.Error(err))
	case err != nil:
		ingest.ConnectionsFailed = true
		conns = nil
		log.Warn("connection fetch failed, continuing with stations only",
			zap.String("dataset", l.opts.ConnectionsDataset), zap.Error(err))
	}

	snap := l.build(log, list, conns)
	snap.Source = SourceFetch
	snap.Ingest = ingest

	// Incomplete fetches are not cached so the next cycle retries upstream.
	if ingest.Complete() {
		entry := &cache.Entry{Tag: tag, FetchedAt: start, Stations: list, Connections: conns}
		if err := l.store.Put(ctx, entry); err != nil {
			l.metrics.RecordCache("put", "error")
			log.Warn("cache write failed", zap.Error(err))
		} else {
			l.metrics.RecordCache("put", "ok")
		}
	}
	return snap, nil
}

func (l *Loader) build(log *zap.Logger, list []stations.Station, conns []connections.Connection) *Snapshot {
	warnings := connections.NewWarningAggregator()
	snap := Build(list, conns, l.opts.AllowPartial, warnings)
	warnings.LogAll(log, l.opts.ConnectionsDataset)
	snap.Warnings = warnings.Summary(l.opts.ConnectionsDataset)

	byMatch := make(map[string]int, len(snap.Resolution.ByMatch))
	for m, n := range snap.Resolution.ByMatch {
		byMatch[m.String()] = n
	}
	l.metrics.RecordResolution(byMatch, snap.Resolution.Unresolved)
	return snap
}

// cached returns the entry for tag, or nil on a miss or store error.
func (l *Loader) cached(ctx context.Context, log *zap.Logger, tag string) *cache.Entry {
	entry, err := l.store.Get(ctx, tag)
	switch {
	case errors.Is(err, cache.ErrMiss):
		l.metrics.RecordCache("get", "miss")
		return nil
	case err != nil:
		l.metrics.RecordCache("get", "error")
		log.Warn("cache read failed", zap.Error(err))
		return nil
	case len(entry.Stations) == 0:
		l.metrics.RecordCache("get", "miss")
		return nil
	}
	l.metrics.RecordCache("get", "hit")
	log.Info("using cached data", zap.Time("fetched_at", entry.FetchedAt))
	return entry
}
