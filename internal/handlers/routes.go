package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router registers every route. Media paths carry percent-encoded absolute
// file paths, so the router matches on the encoded path and never cleans it.
func (h *Handlers) Router(metricsEnabled bool) *mux.Router {
	r := mux.NewRouter().SkipClean(true).UseEncodedPath()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/archive", h.GetArchive).Methods("GET")
	api.HandleFunc("/archive", h.SetArchive).Methods("POST")
	api.HandleFunc("/archive", h.ClearArchive).Methods("DELETE")
	api.HandleFunc("/log", h.GetLog).Methods("GET")
	api.HandleFunc("/clips", h.GetClips).Methods("GET")
	api.HandleFunc("/resolve", h.Resolve).Methods("POST")
	api.HandleFunc("/cache", h.GetCacheStats).Methods("GET")
	api.HandleFunc("/cache/clear", h.ClearCache).Methods("POST")

	r.PathPrefix("/media/").Handler(http.StripPrefix("/media", h.media)).Methods("GET", "HEAD")

	return r
}
