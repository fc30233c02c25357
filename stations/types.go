package stations

import "math"

// Segment is the DRG passenger-traffic segment of a station.
type Segment string

const (
	SegmentA     Segment = "A"
	SegmentB     Segment = "B"
	SegmentC     Segment = "C"
	SegmentOther Segment = "other"
)

// ParseSegment maps the upstream segment_drg value onto a Segment.
// Empty input yields the empty segment (unknown).
func ParseSegment(s string) Segment {
	switch s {
	case "":
		return ""
	case "A", "a":
		return SegmentA
	case "B", "b":
		return SegmentB
	case "C", "c":
		return SegmentC
	default:
		return SegmentOther
	}
}

// Station is a physical rail stop with coordinates and identifying codes.
type Station struct {
	Name      string  `json:"name"`
	ShortName string  `json:"shortName,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	UICCode   string  `json:"uicCode,omitempty"`
	InseeCode string  `json:"inseeCode,omitempty"`
	Segment   Segment `json:"segment,omitempty"`
}

// Key returns the station identifier: the UIC code when present,
// the normalized name otherwise.
func (s Station) Key() string {
	if s.UICCode != "" {
		return s.UICCode
	}
	return Normalize(s.Name)
}

// HasPosition reports whether both coordinates are finite and within WGS84 range.
func (s Station) HasPosition() bool {
	if math.IsNaN(s.Lat) || math.IsNaN(s.Lon) || math.IsInf(s.Lat, 0) || math.IsInf(s.Lon, 0) {
		return false
	}
	return s.Lat >= -90 && s.Lat <= 90 && s.Lon >= -180 && s.Lon <= 180
}

// Match describes how a free-text or coded reference was resolved.
type Match int

const (
	MatchNone Match = iota
	// MatchPartial is a first-token fallback and may pick the wrong station.
	MatchPartial
	MatchName
	MatchUIC
)

func (m Match) String() string {
	switch m {
	case MatchUIC:
		return "uic"
	case MatchName:
		return "name"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// Exact reports whether the match is authoritative or an exact name hit.
func (m Match) Exact() bool { return m == MatchUIC || m == MatchName }
