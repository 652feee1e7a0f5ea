package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/SoonerRobotics/SusScope/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Ready         bool   `json:"ready"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	ActiveArchive string `json:"activeArchive,omitempty"`
	Transcoding   bool   `json:"transcoding"`
	Workers       int    `json:"workers"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. The service is
// degraded when transcoding is unavailable, since clips cannot play.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	archivePath, _ := h.session.ActiveArchive()
	enabled := h.transcoder.IsEnabled()

	response := HealthResponse{
		Status:        statusHealthy,
		Ready:         true,
		Version:       startup.Version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		ActiveArchive: archivePath,
		Transcoding:   enabled,
		Workers:       h.transcoder.Workers(),
		GoVersion:     runtime.Version(),
		NumCPU:        runtime.NumCPU(),
		NumGoroutine:  runtime.NumGoroutine(),
	}
	if !enabled {
		response.Status = statusDegraded
	}
	writeJSON(w, http.StatusOK, response)
}

// LivenessCheck reports that the process is serving. HEAD gets headers only.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, http.StatusOK, "alive")
}

// ReadinessCheck returns 200 only when clips can be resolved
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if !h.transcoder.IsEnabled() {
		writeJSONStatus(w, http.StatusServiceUnavailable, "not_ready")
		return
	}
	writeJSONStatus(w, http.StatusOK, "ready")
}
