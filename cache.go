package tgvmaxmap

import (
	"bytes"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/theoremus-urban-solutions/tgvmax-map/aggregate"
	"github.com/theoremus-urban-solutions/tgvmax-map/loader"
)

// ViewCache memoizes filtered views per snapshot. Keys include the
// cycle id, so views of a replaced snapshot are never served.
type ViewCache struct {
	c *gocache.Cache
}

// NewViewCache creates a cache whose entries expire after ttl.
func NewViewCache(ttl time.Duration) *ViewCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ViewCache{c: gocache.New(ttl, 2*ttl)}
}

func memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

// View returns snap.View(f), computing it at most once per snapshot and filter.
func (vc *ViewCache) View(snap *loader.Snapshot, f aggregate.Filter) loader.View {
	if f.IsZero() {
		return snap.View(f)
	}
	key := memoKey(snap.CycleID, f.Origin, f.Destination, f.Date)
	if v, ok := vc.c.Get(key); ok {
		return v.(loader.View)
	}
	v := snap.View(f)
	vc.c.SetDefault(key, v)
	return v
}

// Len is the number of memoized views.
func (vc *ViewCache) Len() int {
	return vc.c.ItemCount()
}
