// Package formatter shapes snapshots into the payloads served to the map front-end.
//
// This package is organized into:
// - wrapper.go: response envelope and station/pair/train entries
// - geojson.go: GeoJSON FeatureCollection of station points and pair lines
// - json.go: JSON serialization
package formatter
