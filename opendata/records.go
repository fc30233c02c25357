package opendata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// text decodes a JSON string, number or null into a trimmed string.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = text(n.String())
	return nil
}

// codes decodes either a single code or an array of codes.
type codes []string

func (c *codes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []text
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		out := make([]string, 0, len(list))
		for _, s := range list {
			out = append(out, string(s))
		}
		*c = out
		return nil
	}
	var s text
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*c = nil
		return nil
	}
	*c = codes{string(s)}
	return nil
}

// First returns the first non-empty code.
func (c codes) First() string {
	for _, s := range c {
		if s != "" {
			return s
		}
	}
	return ""
}

type geoPoint struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type stationRecord struct {
	Name      text      `json:"nom"`
	ShortName text      `json:"libellecourt"`
	Position  *geoPoint `json:"position_geographique"`
	Insee     text      `json:"codeinsee"`
	UIC       codes     `json:"codes_uic"`
	Segment   text      `json:"segment_drg"`
}

type connectionRecord struct {
	Origin          text `json:"origine" validate:"required"`
	Destination     text `json:"destination" validate:"required"`
	OriginCode      text `json:"origine_iata"`
	DestinationCode text `json:"destination_iata"`
	OriginUIC       text `json:"origine_uic"`
	DestinationUIC  text `json:"destination_uic"`
	Date            text `json:"date" validate:"required,datetime=2006-01-02"`
	Departure       text `json:"heure_depart"`
	Arrival         text `json:"heure_arrivee"`
	TrainNo         text `json:"train_no"`
}

// DecodeStation decodes one station record. It reports false for records
// that do not parse or have no usable position.
func DecodeStation(raw json.RawMessage) (stations.Station, bool) {
	var r stationRecord
	if err := json.Unmarshal(raw, &r); err != nil || r.Position == nil {
		return stations.Station{}, false
	}
	if r.Position.Lat == nil || r.Position.Lon == nil {
		return stations.Station{}, false
	}
	s := stations.Station{
		Name:      string(r.Name),
		ShortName: string(r.ShortName),
		Lat:       *r.Position.Lat,
		Lon:       *r.Position.Lon,
		UICCode:   r.UIC.First(),
		InseeCode: string(r.Insee),
		Segment:   stations.ParseSegment(string(r.Segment)),
	}
	if !s.HasPosition() {
		return stations.Station{}, false
	}
	return s, true
}

// DecodeStations decodes station records in order, dropping malformed ones.
func DecodeStations(raw []json.RawMessage) ([]stations.Station, int) {
	out := make([]stations.Station, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		s, ok := DecodeStation(r)
		if !ok {
			dropped++
			continue
		}
		out = append(out, s)
	}
	return out, dropped
}

// DecodeConnection decodes one connection record. It reports false for
// records without both endpoint names or with a malformed date.
func DecodeConnection(raw json.RawMessage) (connections.Connection, bool) {
	var r connectionRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return connections.Connection{}, false
	}
	if err := validate.Struct(r); err != nil {
		return connections.Connection{}, false
	}
	return connections.Connection{
		OriginName:      string(r.Origin),
		DestinationName: string(r.Destination),
		OriginCode:      string(r.OriginCode),
		DestinationCode: string(r.DestinationCode),
		OriginUIC:       string(r.OriginUIC),
		DestinationUIC:  string(r.DestinationUIC),
		Date:            string(r.Date),
		DepartureTime:   string(r.Departure),
		ArrivalTime:     string(r.Arrival),
		TrainNumber:     string(r.TrainNo),
	}, true
}

// DecodeConnections decodes connection records in order, dropping malformed ones.
func DecodeConnections(raw []json.RawMessage) ([]connections.Connection, int) {
	out := make([]connections.Connection, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		c, ok := DecodeConnection(r)
		if !ok {
			dropped++
			continue
		}
		out = append(out, c)
	}
	return out, dropped
}

