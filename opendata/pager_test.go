package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves total records in pages; fail decides, per 1-based
// page and attempt, whether to answer with a status code instead.
func pagedServer(t *testing.T, total int, fail func(page, attempt int) int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	attempts := map[int]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		page := offset/limit + 1
		attempts[page]++
		if fail != nil {
			if code := fail(page, attempts[page]); code != 0 {
				w.WriteHeader(code)
				return
			}
		}
		n := total - offset
		if n > limit {
			n = limit
		}
		if n < 0 {
			n = 0
		}
		results := make([]json.RawMessage, n)
		for i := range results {
			results[i] = json.RawMessage(fmt.Sprintf(`{"i":%d}`, offset+i))
		}
		_ = json.NewEncoder(w).Encode(Page{TotalCount: total, Results: results})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestPager(url string) *Pager {
	return NewPager(NewClient(url, WithRetry(2, 0)))
}

func TestFetchAll_StopsOnShortPage(t *testing.T) {
	srv, calls := pagedServer(t, 240, nil)

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "tgvmax", Query{}, 100, 20)

	require.NoError(t, err)
	assert.Len(t, records, 240)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.JSONEq(t, `{"i":239}`, string(records[239]))
}

func TestFetchAll_EmptyPageStops(t *testing.T) {
	srv, calls := pagedServer(t, 200, nil)

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "tgvmax", Query{}, 100, 20)

	require.NoError(t, err)
	assert.Len(t, records, 200)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetchAll_MaxPages(t *testing.T) {
	srv, calls := pagedServer(t, 10000, nil)

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "gares", Query{}, 100, 5)

	require.NoError(t, err)
	assert.Len(t, records, 500)
	assert.Equal(t, int32(5), atomic.LoadInt32(calls))
}

func TestFetchAll_PageSizeClamped(t *testing.T) {
	var limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"total_count":0,"results":[]}`))
	}))
	defer srv.Close()

	_, err := newTestPager(srv.URL).FetchAll(context.Background(), "gares", Query{}, 500, 1)
	require.NoError(t, err)
	assert.Equal(t, "100", limit)
}

func TestFetchAll_FirstPageFailure(t *testing.T) {
	srv, _ := pagedServer(t, 240, func(page, _ int) int {
		if page == 1 {
			return http.StatusInternalServerError
		}
		return 0
	})

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "tgvmax", Query{}, 100, 20)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.False(t, errors.Is(err, ErrPartial))
}

func TestFetchAll_LaterPageFailureIsPartial(t *testing.T) {
	srv, _ := pagedServer(t, 240, func(page, _ int) int {
		if page == 2 {
			return http.StatusBadGateway
		}
		return 0
	})

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "tgvmax", Query{}, 100, 20)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPartial))
	var pe *PartialError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Page)
	assert.Equal(t, 100, pe.Records)
	assert.Len(t, records, 100)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	srv, calls := pagedServer(t, 40, func(_, attempt int) int {
		if attempt == 1 {
			return http.StatusServiceUnavailable
		}
		if attempt == 2 {
			return http.StatusTooManyRequests
		}
		return 0
	})

	records, err := newTestPager(srv.URL).FetchAll(context.Background(), "tgvmax", Query{}, 100, 20)

	require.NoError(t, err)
	assert.Len(t, records, 40)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestClient_RetryBound(t *testing.T) {
	srv, calls := pagedServer(t, 40, func(_, _ int) int { return http.StatusInternalServerError })

	_, err := NewClient(srv.URL, WithRetry(3, 0)).Get(context.Background(), "tgvmax", Query{}.Values(100, 0))

	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestClient_ClientErrorsNotRetried(t *testing.T) {
	srv, calls := pagedServer(t, 40, func(_, _ int) int { return http.StatusBadRequest })

	_, err := NewClient(srv.URL, WithRetry(3, 0)).Get(context.Background(), "tgvmax", Query{}.Values(100, 0))

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	srv, _ := pagedServer(t, 40, func(_, _ int) int { return http.StatusServiceUnavailable })
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, WithRetry(5, time.Hour)).Get(ctx, "tgvmax", Query{}.Values(100, 0))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RecordsURL(t *testing.T) {
	c := NewClient("https://example.org/api/explore/v2.1/")
	u := c.RecordsURL("tgvmax", StationsQuery().Values(100, 200))

	assert.Contains(t, u, "https://example.org/api/explore/v2.1/catalog/datasets/tgvmax/records?")
	assert.Contains(t, u, "limit=100")
	assert.Contains(t, u, "offset=200")
	assert.Contains(t, u, "where=position_geographique+IS+NOT+NULL")
}

func TestFetchStations_DecodesAndCountsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_count":3,"results":[
			{"nom":"Paris Gare de Lyon","codes_uic":"87686006","position_geographique":{"lat":48.84,"lon":2.37},"segment_drg":"A"},
			{"nom":"Nowhere","position_geographique":null},
			{"nom":"Lyon Part Dieu","codes_uic":["87723197"],"position_geographique":{"lat":45.76,"lon":4.86},"segment_drg":"a"}
		]}`))
	}))
	defer srv.Close()

	list, dropped, err := newTestPager(srv.URL).FetchStations(context.Background(), "gares-de-voyageurs", 100, 5)

	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, list, 2)
	assert.Equal(t, "87686006", list[0].UICCode)
	assert.Equal(t, "87723197", list[1].UICCode)
}

func TestFetchConnections_InvalidWindow(t *testing.T) {
	_, _, err := newTestPager("http://127.0.0.1:1").FetchConnections(context.Background(), "tgvmax",
		Window{From: "2024-02-01", To: "2024-01-01"}, 100, 1)
	assert.Error(t, err)
}
