package formatter

import (
	"math"
	"time"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// Envelope wraps every API payload with the identity of the snapshot it came from.
type Envelope struct {
	ResponseTimestamp string `json:"responseTimestamp"`
	LoadedAt          string `json:"loadedAt,omitempty"`
	CycleID           string `json:"cycleId,omitempty"`
	Data              any    `json:"data"`
}

// Wrap builds an envelope around data.
func Wrap(now, loadedAt time.Time, cycleID string, data any) Envelope {
	return Envelope{
		ResponseTimestamp: internal.Iso8601FromTime(now),
		LoadedAt:          internal.Iso8601FromTime(loadedAt),
		CycleID:           cycleID,
		Data:              data,
	}
}

// StationEntry is a station with its map emphasis.
type StationEntry struct {
	stations.Station
	Key         string `json:"key"`
	Connections int    `json:"connections"`
	Radius      int    `json:"radius"`
}

// BuildStations lists stations in input order with their connection counts.
func BuildStations(list []stations.Station, counts aggregate.Counts) []StationEntry {
	out := make([]StationEntry, 0, len(list))
	for _, s := range list {
		k := s.Key()
		n := counts[k]
		out = append(out, StationEntry{
			Station:     s,
			Key:         k,
			Connections: n,
			Radius:      aggregate.MarkerRadius(s.Segment, n > 0),
		})
	}
	return out
}

// TrainEntry is one connection inside a pair.
type TrainEntry struct {
	TrainNumber string `json:"trainNo,omitempty"`
	Date        string `json:"date"`
	Departure   string `json:"departure,omitempty"`
	Arrival     string `json:"arrival,omitempty"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Confidence  string `json:"confidence"`
}

// PairEntry is an aggregated station pair.
type PairEntry struct {
	Key         string       `json:"key"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	FromKey     string       `json:"fromKey"`
	ToKey       string       `json:"toKey"`
	Connections int          `json:"connections"`
	Weight      float64      `json:"weight"`
	DistanceKM  float64      `json:"distanceKm"`
	Trains      []TrainEntry `json:"trains"`
}

// BuildPairs flattens pairs for JSON output, keeping their order.
func BuildPairs(pairs []aggregate.Pair) []PairEntry {
	out := make([]PairEntry, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, PairEntry{
			Key:         p.Key,
			From:        p.From.Name,
			To:          p.To.Name,
			FromKey:     p.From.Key(),
			ToKey:       p.To.Key(),
			Connections: len(p.Connections),
			Weight:      p.Weight,
			DistanceKM:  roundKM(stations.DistanceKM(p.From, p.To)),
			Trains:      buildTrains(p.Connections),
		})
	}
	return out
}

func roundKM(km float64) float64 {
	return math.Round(km*10) / 10
}

func buildTrains(list []connections.Resolved) []TrainEntry {
	out := make([]TrainEntry, 0, len(list))
	for _, rc := range list {
		out = append(out, TrainEntry{
			TrainNumber: rc.TrainNumber,
			Date:        rc.Date,
			Departure:   rc.DepartureTime,
			Arrival:     rc.ArrivalTime,
			Origin:      rc.OriginName,
			Destination: rc.DestinationName,
			Confidence:  rc.Confidence().String(),
		})
	}
	return out
}
