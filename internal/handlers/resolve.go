package handlers

import (
	"net/http"

	"github.com/SoonerRobotics/SusScope/internal/protocol"
)

// ResolveRequest names a clip inside the active archive.
type ResolveRequest struct {
	Member string `json:"member"`
}

// ResolveResponse carries the playable file and its media URI. Both are
// empty when the clip could not be resolved.
type ResolveResponse struct {
	Path string `json:"path"`
	URI  string `json:"uri"`
}

// Resolve materializes a clip of the active archive and returns where to
// play it from.
// POST /api/resolve
func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var resp ResolveResponse
	archivePath, _ := h.session.ActiveArchive()
	if path := h.transcoder.ResolvePlayable(r.Context(), archivePath, req.Member); path != "" {
		resp = ResolveResponse{Path: path, URI: protocol.URIFor(path)}
	}

	writeJSON(w, http.StatusOK, resp)
}
