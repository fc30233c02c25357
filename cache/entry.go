package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/snappy"

	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// ErrMiss is returned by Store.Get when no fresh entry exists for a tag.
var ErrMiss = errors.New("cache miss")

// Entry is the raw product of one fetch.
type Entry struct {
	Tag         string
	FetchedAt   time.Time
	Stations    []stations.Station
	Connections []connections.Connection
}

// Store persists entries by tag.
type Store interface {
	Get(ctx context.Context, tag string) (*Entry, error)
	Put(ctx context.Context, e *Entry) error
}

// Tag returns the cache-date tag of the day t falls on.
func Tag(t time.Time) string {
	return "tgvmax:" + internal.Day(t)
}

// Encode serializes an entry as snappy-compressed gob.
func Encode(e *Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return snappy.Encode(nil, buf.Bytes()), nil
}

// Decode reverses Encode.
func Decode(data []byte) (*Entry, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cache entry: %w", err)
	}
	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&e); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &e, nil
}

// DecodeFrom reads and decodes an entry from r.
func DecodeFrom(r io.Reader) (*Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return Decode(data)
}

// NopStore never hits and discards puts.
type NopStore struct{}

func (NopStore) Get(context.Context, string) (*Entry, error) { return nil, ErrMiss }
func (NopStore) Put(context.Context, *Entry) error { return nil }
