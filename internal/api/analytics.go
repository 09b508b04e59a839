package api

import (
	"net/http"
	"time"
)

// handleAnalytics returns a windowed usage report.
//
// GET /api/devices/analytics?from=RFC3339&to=RFC3339
//
// Both bounds are optional: "to" defaults to now, "from" defaults to "to"
// minus the configured default window.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.reporter == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics backend not configured")
		return
	}

	to := time.Now().UTC()
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'to' timestamp, expected RFC3339")
			return
		}
		to = parsed
	}

	from := to.Add(-s.defaultWindow)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'from' timestamp, expected RFC3339")
			return
		}
		from = parsed
	}

	report, err := s.reporter.Aggregate(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
