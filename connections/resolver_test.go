package connections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

func testIndex() *stations.Index {
	return stations.NewIndex([]stations.Station{
		{Name: "Paris Gare de Lyon", UICCode: "87686006", Lat: 48.84, Lon: 2.37},
		{Name: "Lyon Part Dieu", UICCode: "87723197", Lat: 45.76, Lon: 4.86},
		{Name: "Marseille Saint-Charles", Lat: 43.30, Lon: 5.38},
	})
}

func TestResolve_PrefersUIC(t *testing.T) {
	c := Connection{
		OriginName:      "SOMETHING ELSE",
		DestinationName: "LYON PART DIEU",
		OriginUIC:       "87686006",
		Date:            "2024-01-01",
	}
	rc, ok := Resolve(c, testIndex())
	require.True(t, ok)
	assert.Equal(t, "Paris Gare de Lyon", rc.Origin.Name)
	assert.Equal(t, stations.MatchUIC, rc.OriginMatch)
	assert.Equal(t, "Lyon Part Dieu", rc.Destination.Name)
	assert.Equal(t, stations.MatchName, rc.DestinationMatch)
	assert.Equal(t, stations.MatchName, rc.Confidence())
}

func TestResolve_UICMissFallsBackToName(t *testing.T) {
	w := NewWarningAggregator()
	r := NewResolver(testIndex(), true)
	rc, ok := r.Resolve(Connection{
		OriginName:      "Marseille Saint-Charles",
		DestinationName: "Lyon Part Dieu",
		OriginUIC:       "00000000",
	}, w)
	require.True(t, ok)
	assert.Equal(t, "Marseille Saint-Charles", rc.Origin.Name)
	assert.Equal(t, 1, w.Count(WarningUICNotIndexed))
}

func TestResolve_BothEndpointsRequired(t *testing.T) {
	tests := []struct {
		name string
		conn Connection
	}{
		{"origin unknown", Connection{OriginName: "Bordeaux", DestinationName: "Lyon Part Dieu"}},
		{"destination unknown", Connection{OriginName: "Lyon Part Dieu", DestinationName: "Brest"}},
		{"both unknown", Connection{OriginName: "Brest", DestinationName: "Bordeaux"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Resolve(tt.conn, testIndex())
			assert.False(t, ok)
		})
	}
}

func TestResolve_PartialMatchFlagged(t *testing.T) {
	rc, ok := Resolve(Connection{OriginName: "MARSEILLE ST CHARLES", DestinationName: "LYON PART DIEU"}, testIndex())
	require.True(t, ok)
	assert.Equal(t, stations.MatchPartial, rc.OriginMatch)
	assert.Equal(t, stations.MatchPartial, rc.Confidence())
	assert.False(t, rc.Confidence().Exact())
}

func TestResolver_RejectsPartialWhenDisabled(t *testing.T) {
	w := NewWarningAggregator()
	r := NewResolver(testIndex(), false)
	_, ok := r.Resolve(Connection{OriginName: "MARSEILLE ST CHARLES", DestinationName: "LYON PART DIEU"}, w)
	assert.False(t, ok)
	assert.Equal(t, 1, w.Count(WarningPartialRejected))
}

func TestResolver_ResolveAll(t *testing.T) {
	conns := []Connection{
		{OriginName: "Paris Gare de Lyon", DestinationName: "Lyon Part Dieu", TrainNumber: "6601"},
		{OriginName: "", DestinationName: "Lyon Part Dieu", TrainNumber: "6603"},
		{OriginName: "Brest", DestinationName: "Lyon Part Dieu", TrainNumber: "6605"},
		{OriginName: "Lyon Part Dieu", DestinationName: "MARSEILLE ST CHARLES", TrainNumber: "6607"},
		{OriginName: "Lyon", DestinationName: "Paris", OriginUIC: "87723197", DestinationUIC: "87686006"},
	}
	w := NewWarningAggregator()
	res := NewResolver(testIndex(), true).ResolveAll(conns, w)

	require.Len(t, res.Resolved, 3)
	assert.Equal(t, 2, res.Unresolved)
	assert.Equal(t, "6601", res.Resolved[0].TrainNumber, "input order is preserved")
	assert.Equal(t, "6607", res.Resolved[1].TrainNumber)
	assert.Equal(t, 1, res.ByMatch[stations.MatchName])
	assert.Equal(t, 1, res.ByMatch[stations.MatchPartial])
	assert.Equal(t, 1, res.ByMatch[stations.MatchUIC])
	assert.Equal(t, 1, w.Count(WarningMissingEndpoint))
	assert.Equal(t, 1, w.Count(WarningStationNotFound))
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	c := Connection{OriginName: "Paris Gare de Lyon", DestinationName: "Lyon Part Dieu"}
	before := c
	_, _ = Resolve(c, testIndex())
	assert.Equal(t, before, c)
}

func TestWarningAggregator_Summary(t *testing.T) {
	w := NewWarningAggregator()
	for i := 0; i < 5; i++ {
		w.Add(WarningStationNotFound, "Brest")
	}
	w.Add(WarningStationNotFound, "Quimper")
	w.Add(WarningPartialMatch, "A -> B")

	lines := w.Summary("tgvmax")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Dataset tgvmax has endpoints resolved by first-token match only (1 occurrences)"))
	assert.Contains(t, lines[1], "(6 occurrences)")
	assert.Contains(t, lines[1], "Examples: Brest, Quimper")

	core, logs := observer.New(zap.WarnLevel)
	w.LogAll(zap.New(core), "tgvmax")
	assert.Equal(t, 2, logs.Len())
}

func TestWarningAggregator_Nil(t *testing.T) {
	var w *WarningAggregator
	w.Add(WarningStationNotFound, "x")
	assert.Zero(t, w.Count(WarningStationNotFound))
	assert.Nil(t, w.Summary("tgvmax"))
}
