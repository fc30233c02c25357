package tgvmaxmap

import (
	"net/http"

	"github.com/theoremus-urban-solutions/tgvmax-map/internal"
)

type healthResponse struct {
	Status      string `json:"status"`
	Summary     string `json:"summary"`
	CycleID     string `json:"cycle_id,omitempty"`
	Source      string `json:"source,omitempty"`
	LoadedAt    string `json:"loaded_at,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	LastErrorAt string `json:"last_error_at,omitempty"`
}

// handleHealth reports ok with a fresh snapshot, degraded when the last
// reload failed but an older snapshot is still served, and 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.holder.Load()
	at, err := s.holder.LastFailure()

	resp := healthResponse{Status: "ok", Summary: s.holder.Summary()}
	if snap != nil {
		resp.CycleID = snap.CycleID
		resp.Source = string(snap.Source)
		resp.LoadedAt = internal.Iso8601FromTime(snap.LoadedAt)
	}
	if err != nil {
		resp.LastError = err.Error()
		resp.LastErrorAt = internal.Iso8601FromTime(at)
	}

	status := http.StatusOK
	switch {
	case snap == nil && err != nil:
		resp.Status = "error"
		status = http.StatusServiceUnavailable
	case snap == nil:
		resp.Status = "starting"
		status = http.StatusServiceUnavailable
	case err != nil:
		resp.Status = "degraded"
	}
	s.writeJSON(w, status, "application/json", resp)
}
