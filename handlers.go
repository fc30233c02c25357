package tgvmaxmap

import (
	"errors"
	"net/http"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/formatter"
	"github.com/theoremus-urban-solutions/tgvmax-map/loader"
)

type stationsData struct {
	Filter   aggregate.Filter         `json:"filter"`
	Stations []formatter.StationEntry `json:"stations"`
}

type pairsData struct {
	Filter aggregate.Filter      `json:"filter"`
	Pairs  []formatter.PairEntry `json:"pairs"`
}

type statsData struct {
	Filter   aggregate.Filter   `json:"filter"`
	Stats    aggregate.Stats    `json:"stats"`
	Ingest   loader.IngestStats `json:"ingest"`
	ByMatch  map[string]int     `json:"byMatch"`
	Source   string             `json:"source"`
	Warnings []string           `json:"warnings,omitempty"`
}

type reloadData struct {
	Summary string `json:"summary"`
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	v, ok := s.view(w, r, snap)
	if !ok {
		return
	}
	s.writeData(w, snap, stationsData{Filter: v.Filter, Stations: formatter.BuildStations(snap.Stations, v.Counts)})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	v, ok := s.view(w, r, snap)
	if !ok {
		return
	}
	s.writeData(w, snap, pairsData{Filter: v.Filter, Pairs: formatter.BuildPairs(v.Pairs)})
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	v, ok := s.view(w, r, snap)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, "application/geo+json", formatter.BuildGeoJSON(snap.Stations, v.Pairs, v.Counts))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	v, ok := s.view(w, r, snap)
	if !ok {
		return
	}
	byMatch := make(map[string]int, len(snap.Resolution.ByMatch))
	for m, n := range snap.Resolution.ByMatch {
		byMatch[m.String()] = n
	}
	s.writeData(w, snap, statsData{
		Filter:   v.Filter,
		Stats:    v.Stats,
		Ingest:   snap.Ingest,
		ByMatch:  byMatch,
		Source:   string(snap.Source),
		Warnings: snap.Warnings,
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	s.writeData(w, snap, snap.Options())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	err := s.Reload(r.Context())
	switch {
	case errors.Is(err, ErrReloadInProgress):
		s.writeError(w, http.StatusConflict, err)
	case err != nil:
		s.writeError(w, http.StatusBadGateway, err)
	default:
		snap := s.holder.Load()
		s.writeData(w, snap, reloadData{Summary: snap.Summary()})
	}
}
