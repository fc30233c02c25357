package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	lib "github.com/theoremus-urban-solutions/tgvmax-map"
	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/cache"
	"github.com/theoremus-urban-solutions/tgvmax-map/config"
	"github.com/theoremus-urban-solutions/tgvmax-map/formatter"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
	"github.com/theoremus-urban-solutions/tgvmax-map/loader"
	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
	"github.com/theoremus-urban-solutions/tgvmax-map/opendata"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	configPath := flag.String("config", "", "config file (default: config.yml, ./config/config.yml)")
	format := flag.String("format", "geojson", "oneshot output: geojson|pairs|stations|stats")
	origin := flag.String("origin", "", "oneshot filter: origin station name")
	destination := flag.String("destination", "", "oneshot filter: destination station name")
	date := flag.String("date", "", "oneshot filter: travel date YYYY-MM-DD")
	stationsFile := flag.String("stationsFile", "", "read stations from a local export instead of the API")
	connectionsFile := flag.String("connectionsFile", "", "read connections from a local export (with -stationsFile)")
	noCache := flag.Bool("noCache", false, "bypass the snapshot cache")
	flag.Parse()

	var paths []string
	if *configPath != "" {
		paths = []string{*configPath}
	}
	if err := config.LoadAppConfig(paths...); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Config

	logger, err := internal.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()

	var fetcher loader.Fetcher
	if *stationsFile != "" {
		fetcher = &fileFetcher{stationsPath: *stationsFile, connectionsPath: *connectionsFile}
	} else {
		client := opendata.NewClient(cfg.API.BaseURL,
			opendata.WithTimeout(time.Duration(cfg.API.TimeoutMS)*time.Millisecond),
			opendata.WithRetry(cfg.Fetch.Retries, time.Duration(cfg.Fetch.RetryDelayMS)*time.Millisecond),
			opendata.WithLogger(logger),
			opendata.WithMetrics(reg))
		fetcher = opendata.NewPager(client)
	}

	var store cache.Store = cache.NopStore{}
	if !*noCache && *stationsFile == "" {
		store, err = cache.New(ctx, cfg.Cache)
		if err != nil {
			logger.Fatal("cache setup failed", zap.Error(err))
		}
	}

	ld := loader.New(fetcher, store, loader.OptionsFromConfig(cfg), logger, reg)

	switch *mode {
	case "serve":
		srv := lib.NewServer(cfg, &loader.Holder{}, ld, logger, reg)
		if err := srv.Run(ctx); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case "oneshot":
		snap, err := ld.Load(ctx)
		if err != nil {
			logger.Fatal("load failed", zap.Error(err))
		}
		v := snap.View(aggregate.Filter{Origin: *origin, Destination: *destination, Date: *date})
		var out any
		switch *format {
		case "geojson":
			out = formatter.BuildGeoJSON(snap.Stations, v.Pairs, v.Counts)
		case "pairs":
			out = formatter.BuildPairs(v.Pairs)
		case "stations":
			out = formatter.BuildStations(snap.Stations, v.Counts)
		case "stats":
			out = v.Stats
		default:
			logger.Fatal("unknown format", zap.String("format", *format))
		}
		if err := formatter.WriteJSON(os.Stdout, out); err != nil {
			logger.Fatal("write failed", zap.Error(err))
		}
		logger.Info(snap.Summary())
	default:
		logger.Fatal("unknown mode", zap.String("mode", *mode))
	}
}
