package handlers

import (
	"net/http"

	"github.com/SoonerRobotics/SusScope/internal/archive"
	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// GetLog returns the session log of the active archive as text. The body
// is empty when there is no active archive or the log cannot be read.
// GET /api/log
func (h *Handlers) GetLog(w http.ResponseWriter, _ *http.Request) {
	var text string
	if path, ok := h.session.ActiveArchive(); ok {
		text = archive.ReadText(path, h.logMember)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(text)); err != nil {
		logging.Debug("failed to write log response: %v", err)
	}
}

// GetClips lists the video members of the active archive. The optional q
// parameter narrows the list with a fuzzy match on member names.
// GET /api/clips?q=
func (h *Handlers) GetClips(w http.ResponseWriter, r *http.Request) {
	clips := []archive.Member{}
	if path, ok := h.session.ActiveArchive(); ok {
		clips = archive.FilterMembers(archive.ListClips(path), r.URL.Query().Get("q"))
	}

	writeJSON(w, http.StatusOK, clips)
}
