package connections

import (
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// Connection is one scheduled TGV Max trip between two named stations on a date.
type Connection struct {
	OriginName      string `json:"origin"`
	DestinationName string `json:"destination"`
	OriginCode      string `json:"originCode,omitempty"`
	DestinationCode string `json:"destinationCode,omitempty"`
	OriginUIC       string `json:"originUic,omitempty"`
	DestinationUIC  string `json:"destinationUic,omitempty"`
	Date            string `json:"date"` // YYYY-MM-DD
	DepartureTime   string `json:"departure,omitempty"`
	ArrivalTime     string `json:"arrival,omitempty"`
	TrainNumber     string `json:"trainNo,omitempty"`
}

// Valid reports whether both endpoint names are present.
func (c Connection) Valid() bool {
	return c.OriginName != "" && c.DestinationName != ""
}

// Resolved pairs a connection with the stations its endpoints resolved to.
type Resolved struct {
	Connection
	Origin           stations.Station `json:"-"`
	Destination      stations.Station `json:"-"`
	OriginMatch      stations.Match   `json:"-"`
	DestinationMatch stations.Match   `json:"-"`
}

// Confidence is the weaker of the two endpoint matches.
func (r Resolved) Confidence() stations.Match {
	if r.OriginMatch < r.DestinationMatch {
		return r.OriginMatch
	}
	return r.DestinationMatch
}

// Result is the outcome of resolving a batch of connections.
type Result struct {
	Resolved   []Resolved
	Unresolved int
	// ByMatch counts resolved connections by their Confidence.
	ByMatch map[stations.Match]int
}
