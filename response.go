package tgvmaxmap

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/tgvmax-map/formatter"
	"github.com/theoremus-urban-solutions/tgvmax-map/loader"
)

type errorPayload struct {
	Error string `json:"error"`
}

var errNoSnapshot = errors.New("no data loaded yet")

func (s *Server) writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := formatter.WriteJSON(w, v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeData(w http.ResponseWriter, snap *loader.Snapshot, data any) {
	s.writeJSON(w, http.StatusOK, "application/json", formatter.Wrap(s.now(), snap.LoadedAt, snap.CycleID, data))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, "application/json", errorPayload{Error: err.Error()})
}

// snapshot loads the published snapshot, answering 503 when there is none.
func (s *Server) snapshot(w http.ResponseWriter) (*loader.Snapshot, bool) {
	snap := s.holder.Load()
	if snap == nil {
		s.writeError(w, http.StatusServiceUnavailable, errNoSnapshot)
		return nil, false
	}
	return snap, true
}

// view parses the filter and returns the filtered view, answering 400 on bad input.
func (s *Server) view(w http.ResponseWriter, r *http.Request, snap *loader.Snapshot) (loader.View, bool) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return loader.View{}, false
	}
	return s.views.View(snap, f), true
}
