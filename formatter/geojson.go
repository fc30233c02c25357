package formatter

import (
	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// Geometry is a GeoJSON geometry. Coordinates are [lon, lat].
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// BuildGeoJSON renders stations as points followed by pairs as lines.
// Only stations with a position are emitted; every station in a pair has one.
func BuildGeoJSON(list []stations.Station, pairs []aggregate.Pair, counts aggregate.Counts) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(list)+len(pairs))}

	for _, e := range BuildStations(list, counts) {
		if !e.HasPosition() {
			continue
		}
		props := map[string]any{
			"kind":        "station",
			"key":         e.Key,
			"name":        e.Name,
			"connections": e.Connections,
			"radius":      e.Radius,
		}
		if e.Segment != "" {
			props["segment"] = string(e.Segment)
		}
		if e.UICCode != "" {
			props["uic"] = e.UICCode
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Point", Coordinates: point(e.Station)},
			Properties: props,
		})
	}

	for _, p := range pairs {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: [][]float64{point(p.From), point(p.To)},
			},
			Properties: map[string]any{
				"kind":        "pair",
				"key":         p.Key,
				"from":        p.From.Name,
				"to":          p.To.Name,
				"connections": len(p.Connections),
				"weight":      p.Weight,
				"distanceKm":  roundKM(stations.DistanceKM(p.From, p.To)),
				"trains":      buildTrains(p.Connections),
			},
		})
	}
	return fc
}

func point(s stations.Station) []float64 {
	return []float64{s.Lon, s.Lat}
}
