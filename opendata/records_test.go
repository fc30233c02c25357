package opendata

import (
	"encoding/json"
	"testing"

	"github.com/theoremus-urban-solutions/tgvmax-map/stations"
)

func TestDecodeStation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantOK  bool
		wantUIC string
		wantSeg stations.Segment
	}{
		{"string uic", `{"nom":"Rennes","codes_uic":"87471003","position_geographique":{"lat":48.1,"lon":-1.67},"segment_drg":"A"}`, true, "87471003", stations.SegmentA},
		{"array uic", `{"nom":"Rennes","codes_uic":["","87471003"],"position_geographique":{"lat":48.1,"lon":-1.67}}`, true, "87471003", ""},
		{"numeric uic", `{"nom":"Rennes","codes_uic":87471003,"position_geographique":{"lat":48.1,"lon":-1.67},"segment_drg":"C"}`, true, "87471003", stations.SegmentC},
		{"no uic", `{"nom":"Rennes","position_geographique":{"lat":48.1,"lon":-1.67},"segment_drg":"X"}`, true, "", stations.SegmentOther},
		{"no position", `{"nom":"Rennes","codes_uic":"1"}`, false, "", ""},
		{"missing lon", `{"nom":"Rennes","position_geographique":{"lat":48.1}}`, false, "", ""},
		{"out of range", `{"nom":"Rennes","position_geographique":{"lat":148.1,"lon":2}}`, false, "", ""},
		{"not json", `{"nom":`, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := DecodeStation(json.RawMessage(tt.raw))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if s.UICCode != tt.wantUIC {
				t.Errorf("UICCode = %q, want %q", s.UICCode, tt.wantUIC)
			}
			if s.Segment != tt.wantSeg {
				t.Errorf("Segment = %q, want %q", s.Segment, tt.wantSeg)
			}
			if s.Name != "Rennes" {
				t.Errorf("Name = %q", s.Name)
			}
		})
	}
}

func TestDecodeConnection(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"complete", `{"origine":"PARIS (intramuros)","destination":"LYON (intramuros)","date":"2024-05-01","heure_depart":"06:00","heure_arrivee":"08:00","train_no":6601}`, true},
		{"missing origin", `{"destination":"LYON","date":"2024-05-01"}`, false},
		{"blank destination", `{"origine":"PARIS","destination":"  ","date":"2024-05-01"}`, false},
		{"bad date", `{"origine":"PARIS","destination":"LYON","date":"01/05/2024"}`, false},
		{"missing date", `{"origine":"PARIS","destination":"LYON"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DecodeConnection(json.RawMessage(tt.raw))
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestDecodeConnection_Fields(t *testing.T) {
	c, ok := DecodeConnection(json.RawMessage(`{"origine":"PARIS","destination":"LYON","origine_iata":"FRPAR","destination_iata":"FRLYS","origine_uic":"87686006","date":"2024-05-01","heure_depart":"06:00","heure_arrivee":"08:00","train_no":6601}`))
	if !ok {
		t.Fatal("expected record to decode")
	}
	if c.TrainNumber != "6601" {
		t.Errorf("TrainNumber = %q, want 6601", c.TrainNumber)
	}
	if c.OriginUIC != "87686006" || c.DestinationUIC != "" {
		t.Errorf("UIC = %q/%q", c.OriginUIC, c.DestinationUIC)
	}
	if c.OriginCode != "FRPAR" || c.DestinationCode != "FRLYS" {
		t.Errorf("codes = %q/%q", c.OriginCode, c.DestinationCode)
	}
}

func TestDecodeConnections_DropsMalformed(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"origine":"A","destination":"B","date":"2024-05-01"}`),
		json.RawMessage(`{"origine":"A","date":"2024-05-01"}`),
		json.RawMessage(`{"origine":"B","destination":"C","date":"2024-05-02"}`),
	}
	list, dropped := DecodeConnections(raw)
	if len(list) != 2 || dropped != 1 {
		t.Fatalf("got %d connections, %d dropped; want 2, 1", len(list), dropped)
	}
	if list[1].OriginName != "B" {
		t.Errorf("order not preserved: %+v", list)
	}
}
