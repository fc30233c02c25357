package connections

import (
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// Resolver resolves connections against one index snapshot.
// It holds no mutable state and may be shared.
type Resolver struct {
	index *stations.Index
	// allowPartial accepts first-token matches; when false they count as unresolved.
	allowPartial bool
}

// NewResolver creates a resolver over idx.
func NewResolver(idx *stations.Index, allowPartial bool) *Resolver {
	return &Resolver{index: idx, allowPartial: allowPartial}
}

// Resolve resolves c against idx, accepting partial name matches.
func Resolve(c Connection, idx *stations.Index) (Resolved, bool) {
	return NewResolver(idx, true).Resolve(c, nil)
}

// Resolve matches both endpoints of c. Warnings, when non-nil, receives the
// reason an endpoint failed or degraded.
func (r *Resolver) Resolve(c Connection, warnings *WarningAggregator) (Resolved, bool) {
	origin, om := r.endpoint(c.OriginUIC, c.OriginName, warnings)
	dest, dm := r.endpoint(c.DestinationUIC, c.DestinationName, warnings)
	if om == stations.MatchNone || dm == stations.MatchNone {
		return Resolved{}, false
	}
	return Resolved{
		Connection:       c,
		Origin:           origin,
		Destination:      dest,
		OriginMatch:      om,
		DestinationMatch: dm,
	}, true
}

func (r *Resolver) endpoint(uic, name string, warnings *WarningAggregator) (stations.Station, stations.Match) {
	if uic != "" {
		if st, ok := r.index.Lookup(uic); ok {
			return st, stations.MatchUIC
		}
		warnings.Add(WarningUICNotIndexed, uic)
	}
	st, m, ok := r.index.ResolveByName(name)
	if !ok {
		warnings.Add(WarningStationNotFound, name)
		return stations.Station{}, stations.MatchNone
	}
	if m == stations.MatchPartial {
		if !r.allowPartial {
			warnings.Add(WarningPartialRejected, name)
			return stations.Station{}, stations.MatchNone
		}
		warnings.Add(WarningPartialMatch, name+" -> "+st.Name)
	}
	return st, m
}

// ResolveAll resolves every connection in input order. Invalid records are
// counted as unresolved.
func (r *Resolver) ResolveAll(conns []Connection, warnings *WarningAggregator) Result {
	res := Result{
		Resolved: make([]Resolved, 0, len(conns)),
		ByMatch:  map[stations.Match]int{},
	}
	for _, c := range conns {
		if !c.Valid() {
			warnings.Add(WarningMissingEndpoint, c.TrainNumber)
			res.Unresolved++
			continue
		}
		rc, ok := r.Resolve(c, warnings)
		if !ok {
			res.Unresolved++
			continue
		}
		res.Resolved = append(res.Resolved, rc)
		res.ByMatch[rc.Confidence()]++
	}
	return res
}
