package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleBackendStats(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil || s.gen.Stats == nil {
		jsonError(w, "backend stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":       s.gen.Model(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       s.gen.Stats.Snapshot(),
	})
}
