package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// ErrPartial marks a fetch that stopped early on a failed later page.
// The records collected before the failure are still returned.
var ErrPartial = errors.New("partial fetch")

// PartialError reports the page that failed during a paged fetch.
type PartialError struct {
	Dataset string
	Page    int // 1-based
	Records int // records collected before the failure
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: page %d of %s failed after %d records: %v", ErrPartial, e.Page, e.Dataset, e.Records, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Is matches ErrPartial.
func (e *PartialError) Is(target error) bool { return target == ErrPartial }

// Pager runs sequential limit/offset fetches against one client.
type Pager struct {
	client  *Client
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewPager creates a pager over c.
func NewPager(c *Client) *Pager {
	return &Pager{client: c, logger: c.logger, metrics: c.metrics}
}

// FetchAll requests pages of dataset until a short or empty page, or
// until maxPages pages have been fetched. pageSize is clamped to
// [1, MaxPageSize]; maxPages <= 0 means one page.
//
// A failure on the first page is returned as an error with no records.
// A failure on a later page stops paging and returns the records so far
// together with a *PartialError.
func (p *Pager) FetchAll(ctx context.Context, dataset string, q Query, pageSize, maxPages int) ([]json.RawMessage, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	var records []json.RawMessage
	for page := 0; page < maxPages; page++ {
		resp, err := p.client.Get(ctx, dataset, q.Values(pageSize, page*pageSize))
		if err != nil {
			p.metrics.RecordFetchFailure(dataset, page+1)
			if page == 0 || ctx.Err() != nil {
				return nil, fmt.Errorf("fetching %s: %w", dataset, err)
			}
			return records, &PartialError{Dataset: dataset, Page: page + 1, Records: len(records), Err: err}
		}
		p.metrics.RecordPage(dataset)

		records = append(records, resp.Results...)
		p.logger.Debug("fetched page",
			zap.String("dataset", dataset),
			zap.Int("page", page+1),
			zap.Int("records", len(resp.Results)))

		if len(resp.Results) < pageSize {
			break
		}
	}
	return records, nil
}

// FetchStations fetches and decodes the station dataset. The returned
// count is the number of records dropped as malformed. A *PartialError
// is returned alongside the stations decoded before the failure.
func (p *Pager) FetchStations(ctx context.Context, dataset string, pageSize, maxPages int) ([]stations.Station, int, error) {
	raw, err := p.FetchAll(ctx, dataset, StationsQuery(), pageSize, maxPages)
	if raw == nil && err != nil {
		return nil, 0, err
	}
	list, dropped := DecodeStations(raw)
	p.metrics.RecordDropped(dataset, dropped)
	return list, dropped, err
}

// FetchConnections fetches and decodes the connections travelling within w.
func (p *Pager) FetchConnections(ctx context.Context, dataset string, w Window, pageSize, maxPages int) ([]connections.Connection, int, error) {
	q, err := ConnectionsQuery(w)
	if err != nil {
		return nil, 0, err
	}
	raw, err := p.FetchAll(ctx, dataset, q, pageSize, maxPages)
	if raw == nil && err != nil {
		return nil, 0, err
	}
	list, dropped := DecodeConnections(raw)
	p.metrics.RecordDropped(dataset, dropped)
	return list, dropped, err
}
