package stations

import "strings"

// Index stores stations in memory for fast lookups by UIC code or normalized name.
// It is immutable once built and safe for concurrent readers.
type Index struct {
	stations []Station         // input order
	byKey    map[string]int    // key -> position in stations
	keys     []string          // insertion order of byKey
	nameKeys []string          // insertion order of name keys only
	short    map[string]string // name key -> normalized short name
}

// NewIndex builds an index over stations. UIC codes are registered as given;
// normalized names are registered only if not already present.
func NewIndex(list []Station) *Index {
	idx := &Index{
		stations: make([]Station, len(list)),
		byKey:    make(map[string]int, len(list)*2),
		keys:     make([]string, 0, len(list)*2),
		nameKeys: make([]string, 0, len(list)),
		short:    make(map[string]string, len(list)),
	}
	copy(idx.stations, list)
	for i, s := range idx.stations {
		if s.UICCode != "" {
			idx.register(s.UICCode, i)
		}
		key := Normalize(s.Name)
		if key == "" {
			continue
		}
		if idx.register(key, i) {
			idx.nameKeys = append(idx.nameKeys, key)
			if s.ShortName != "" {
				idx.short[key] = Normalize(s.ShortName)
			}
		}
	}
	return idx
}

// register adds key if absent and reports whether it was added.
func (idx *Index) register(key string, pos int) bool {
	if _, ok := idx.byKey[key]; ok {
		return false
	}
	idx.byKey[key] = pos
	idx.keys = append(idx.keys, key)
	return true
}

// Lookup returns the station registered under key, matched exactly.
func (idx *Index) Lookup(key string) (Station, bool) {
	if idx == nil || key == "" {
		return Station{}, false
	}
	pos, ok := idx.byKey[key]
	if !ok {
		return Station{}, false
	}
	return idx.stations[pos], true
}

// ResolveByName normalizes name and looks it up. On a miss it scans name keys
// in insertion order and returns the first whose first token contains, or is
// contained in, the first token of the search key. A station whose short name
// equals that token also matches.
func (idx *Index) ResolveByName(name string) (Station, Match, bool) {
	if idx == nil {
		return Station{}, MatchNone, false
	}
	search := Normalize(name)
	if search == "" {
		return Station{}, MatchNone, false
	}
	if pos, ok := idx.byKey[search]; ok {
		return idx.stations[pos], MatchName, true
	}
	token := firstToken(search)
	for _, key := range idx.nameKeys {
		kt := firstToken(key)
		if strings.Contains(kt, token) || strings.Contains(token, kt) || idx.short[key] == token {
			return idx.stations[idx.byKey[key]], MatchPartial, true
		}
	}
	return Station{}, MatchNone, false
}

// Stations returns the indexed stations in input order.
func (idx *Index) Stations() []Station {
	if idx == nil {
		return nil
	}
	out := make([]Station, len(idx.stations))
	copy(out, idx.stations)
	return out
}

// Keys returns every registered key in insertion order.
func (idx *Index) Keys() []string {
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Len is the number of stations in the index, not the number of keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.stations)
}
