package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/project-home/smart-home-core/internal/analytics"
	"github.com/project-home/smart-home-core/internal/device"
	"github.com/project-home/smart-home-core/internal/metrics"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeOutput writes the success message shape consumers expect.
func writeOutput(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"output": message})
}

// writeError writes the error message shape consumers expect.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps a command or analytics error onto a status code.
// Validation failures and duplicates are client errors; a missing device is
// 404; an unanswerable analytics query is an upstream failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, device.ErrDeviceExists),
		errors.Is(err, device.ErrMissingField),
		errors.Is(err, device.ErrUnknownType),
		errors.Is(err, device.ErrUnknownParameter),
		errors.Is(err, device.ErrIllegalField),
		errors.Is(err, device.ErrUnknownState),
		errors.Is(err, metrics.ErrInvalidValue),
		errors.Is(err, analytics.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
