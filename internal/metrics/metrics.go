package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "susscope_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "susscope_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Archive metrics
var (
	ArchiveReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_archive_reads_total",
			Help: "Total number of archive member reads",
		},
		[]string{"operation", "status"},
	)

	ArchiveReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "susscope_archive_read_duration_seconds",
			Help:    "Archive member read duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

// Cache metrics
var (
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "susscope_cache_hits_total",
			Help: "Total number of resolves served from a materialized artifact",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "susscope_cache_misses_total",
			Help: "Total number of resolves that required extraction and transcoding",
		},
	)

	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "susscope_cache_size_bytes",
			Help: "Total size of the media cache in bytes",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "susscope_cache_entries",
			Help: "Number of materialized artifacts in the media cache",
		},
	)
)

// Transcoder metrics
var (
	TranscoderJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_transcoder_jobs_total",
			Help: "Total number of transcoding jobs",
		},
		[]string{"status"},
	)

	TranscoderJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "susscope_transcoder_job_duration_seconds",
			Help:    "Transcoding job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TranscoderJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "susscope_transcoder_jobs_in_progress",
			Help: "Number of transcoding jobs currently in progress",
		},
	)

	TranscoderSharedResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "susscope_transcoder_shared_results_total",
			Help: "Total number of resolves that reused another caller's in-flight transcode",
		},
	)
)

// Streaming metrics
var (
	StreamResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_stream_responses_total",
			Help: "Total number of media protocol responses by status code",
		},
		[]string{"status"},
	)

	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "susscope_stream_bytes_total",
			Help: "Total number of media body bytes written",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retries after a stale file handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "susscope_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "susscope_filesystem_retry_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "susscope_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
