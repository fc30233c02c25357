package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/theoremus-urban-solutions/tgvmax-map/connections"
	"github.com/theoremus-urban-solutions/tgvmax-map/opendata"
	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

// fileFetcher reads dataset exports from local files instead of the API.
// This is CLI-specific logic for offline runs; an empty connections path
// yields no connections.
type fileFetcher struct {
	stationsPath    string
	connectionsPath string
}

// readRecords accepts either a JSON array of records (the explore API
// export format) or a records page with a "results" array.
func readRecords(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)

	var records []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &records)
	} else {
		var page opendata.Page
		err = json.Unmarshal(data, &page)
		records = page.Results
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

func (f *fileFetcher) FetchStations(_ context.Context, _ string, _, _ int) ([]stations.Station, int, error) {
	raw, err := readRecords(f.stationsPath)
	if err != nil {
		return nil, 0, err
	}
	list, dropped := opendata.DecodeStations(raw)
	return list, dropped, nil
}

func (f *fileFetcher) FetchConnections(_ context.Context, _ string, w opendata.Window, _, _ int) ([]connections.Connection, int, error) {
	if f.connectionsPath == "" {
		return nil, 0, nil
	}
	raw, err := readRecords(f.connectionsPath)
	if err != nil {
		return nil, 0, err
	}
	list, dropped := opendata.DecodeConnections(raw)
	out := list[:0]
	for _, c := range list {
		if c.Date >= w.From && c.Date <= w.To {
			out = append(out, c)
		}
	}
	return out, dropped, nil
}
