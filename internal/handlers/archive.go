package handlers

import (
	"net/http"

	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/session"
)

// ArchiveResponse describes the active archive.
type ArchiveResponse struct {
	Path    string `json:"path"`
	Active  bool   `json:"active"`
	Changed bool   `json:"changed,omitempty"`
}

// GetArchive returns the active archive.
// GET /api/archive
func (h *Handlers) GetArchive(w http.ResponseWriter, _ *http.Request) {
	path, ok := h.session.ActiveArchive()

	writeJSON(w, http.StatusOK, ArchiveResponse{Path: path, Active: ok})
}

// SetArchive applies the outcome of the archive picker. A dismissed picker
// leaves the current selection in place.
// POST /api/archive
func (h *Handlers) SetArchive(w http.ResponseWriter, r *http.Request) {
	var sel session.Selection
	if !decodeJSON(w, r, &sel) {
		return
	}

	changed := h.session.Apply(sel)
	path, ok := h.session.ActiveArchive()
	if changed {
		logging.Info("Active archive set to %s", path)
	} else {
		logging.Debug("Archive selection dismissed, keeping %q", path)
	}

	writeJSON(w, http.StatusOK, ArchiveResponse{Path: path, Active: ok, Changed: changed})
}

// ClearArchive forgets the active archive.
// DELETE /api/archive
func (h *Handlers) ClearArchive(w http.ResponseWriter, _ *http.Request) {
	h.session.Clear()
	logging.Info("Active archive cleared")
	writeJSONStatus(w, http.StatusOK, "cleared")
}
