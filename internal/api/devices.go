package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/project-home/smart-home-core/internal/device"
)

// Success messages returned by the mutation handlers. Dashboard code matches
// on these strings, so they are part of the wire contract.
const (
	msgDeviceAdded   = "Device added successfully"
	msgDeviceUpdated = "Device updated successfully"
	msgDeviceDeleted = "Device was deleted from the database"
	msgActionApplied = "Action applied to device and published via MQTT"
)

// handleListIDs returns the identifiers of all registered devices.
//
// GET /api/ids
func (s *Server) handleListIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.repo.ListIDs(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// handleListDevices returns all registered devices.
//
// Listing doubles as a recovery path: any device the metric projection has
// not seen yet (a registry written by a previous process run) is replayed
// into the collectors so its series reappear after a restart.
//
// GET /api/devices
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	for _, d := range devices {
		s.commands.MarkRead(d)
	}
	if devices == nil {
		devices = []*device.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleGetDevice returns a single device by ID.
//
// GET /api/devices/{id}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.commands.MarkRead(d)
	writeJSON(w, http.StatusOK, d)
}

// handleCreateDevice registers a new device and announces it on the broker.
//
// POST /api/devices
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.commands.Create(r.Context(), &d, true); err != nil {
		writeDomainError(w, err)
		return
	}
	writeOutput(w, msgDeviceAdded)
}

// handleUpdateDevice modifies top-level metadata or engagement state.
//
// PUT /api/devices/{id}
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.commands.Update(r.Context(), id, fields, true); err != nil {
		writeDomainError(w, err)
		return
	}
	writeOutput(w, msgDeviceUpdated)
}

// handleDeleteDevice removes a device and tells it over the broker.
//
// DELETE /api/devices/{id}
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.commands.Delete(r.Context(), id, true); err != nil {
		writeDomainError(w, err)
		return
	}
	writeOutput(w, msgDeviceDeleted)
}

// handleDeviceAction applies parameter changes to a device and publishes the
// command to the device's action topic.
//
// POST /api/devices/{id}/action
func (s *Server) handleDeviceAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.commands.Action(r.Context(), id, params, true); err != nil {
		writeDomainError(w, err)
		return
	}
	writeOutput(w, msgActionApplied)
}
