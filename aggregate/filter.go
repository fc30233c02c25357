package aggregate

import (
	"sort"

	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
)

// Filter narrows connections by exact origin name, destination name and date.
// Empty fields match everything.
type Filter struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	Date        string `json:"date,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Origin == "" && f.Destination == "" && f.Date == ""
}

// Match reports whether c passes the filter.
func (f Filter) Match(c connections.Connection) bool {
	if f.Origin != "" && c.OriginName != f.Origin {
		return false
	}
	if f.Destination != "" && c.DestinationName != f.Destination {
		return false
	}
	if f.Date != "" && c.Date != f.Date {
		return false
	}
	return true
}

// Apply returns the connections that pass the filter, in input order.
func (f Filter) Apply(conns []connections.Connection) []connections.Connection {
	if f.IsZero() {
		return conns
	}
	out := make([]connections.Connection, 0, len(conns))
	for _, c := range conns {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyResolved is Apply for resolved connections.
func (f Filter) ApplyResolved(resolved []connections.Resolved) []connections.Resolved {
	if f.IsZero() {
		return resolved
	}
	out := make([]connections.Resolved, 0, len(resolved))
	for _, rc := range resolved {
		if f.Match(rc.Connection) {
			out = append(out, rc)
		}
	}
	return out
}

// Options lists the distinct origin and destination names, sorted, for filter pickers.
type Options struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

// Endpoints collects filter options from raw connections.
func Endpoints(conns []connections.Connection) Options {
	origins := map[string]struct{}{}
	dests := map[string]struct{}{}
	for _, c := range conns {
		if c.OriginName != "" {
			origins[c.OriginName] = struct{}{}
		}
		if c.DestinationName != "" {
			dests[c.DestinationName] = struct{}{}
		}
	}
	return Options{Origins: sortedKeys(origins), Destinations: sortedKeys(dests)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
