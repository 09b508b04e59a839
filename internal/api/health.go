package api

import "net/http"

// handleHealthy is the liveness probe. It answers as long as the process
// can serve HTTP at all.
//
// GET /healthy
func (s *Server) handleHealthy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Status": "Healthy"})
}

// handleReady is the readiness probe. Ready means the device store answers
// a ping and the broker connection is up. Checkers left nil at wiring time
// are treated as ready so partial deployments can still pass.
//
// GET /ready
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := true

	if s.store != nil {
		if err := s.store.HealthCheck(r.Context()); err != nil {
			s.logger.Error("readiness check: device store unreachable", "error", err)
			ready = false
		}
	}
	if s.broker != nil && !s.broker.IsConnected() {
		s.logger.Error("readiness check: broker disconnected")
		ready = false
	}

	if !ready {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"Status": "Not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"Status": "Ready"})
}
