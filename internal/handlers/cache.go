package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// ClearCache removes every materialized artifact from the media cache.
// POST /api/cache/clear
func (h *Handlers) ClearCache(w http.ResponseWriter, _ *http.Request) {
	freedBytes, err := h.transcoder.ClearCache()
	if err != nil {
		logging.Error("Failed to clear media cache: %v", err)
		writeJSONError(w, "Failed to clear media cache", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"freedBytes": freedBytes,
	})
}

// GetCacheStats reports the size of the media cache.
// GET /api/cache
func (h *Handlers) GetCacheStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.transcoder.CacheStats()
	if err != nil {
		logging.Error("Failed to read media cache: %v", err)
		writeJSONError(w, "Failed to read media cache", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"root":      h.transcoder.CacheRoot(),
		"entries":   stats.Entries,
		"sizeBytes": stats.SizeBytes,
		"size":      humanize.Bytes(uint64(stats.SizeBytes)),
	})
}
