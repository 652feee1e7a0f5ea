// Package metrics provides Prometheus instrumentation for SusScope.
//
// All metrics are prefixed with "susscope_" and registered on the default
// registry through promauto, so they are exported by promhttp.Handler on
// /metrics when METRICS_ENABLED is true.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests currently being served
//
// ## Archive Metrics
//
//   - ArchiveReadsTotal: Counter of member reads by operation and status
//   - ArchiveReadDuration: Histogram of read duration by operation
//
// ## Cache and Transcoder Metrics
//
//   - CacheHitsTotal / CacheMissesTotal: resolve fast path vs. transcode path
//   - CacheSizeBytes / CacheEntries: refreshed by the Collector
//   - TranscoderJobsTotal: Counter of ffmpeg runs by status
//   - TranscoderJobDuration: Histogram of ffmpeg run time
//   - TranscoderJobsInProgress: Gauge of running ffmpeg processes
//   - TranscoderSharedResultsTotal: callers that reused an in-flight transcode
//
// ## Streaming Metrics
//
//   - StreamResponsesTotal: protocol responses by status code
//   - StreamBytesTotal: body bytes written to the presentation layer
//
// ## Filesystem Metrics
//
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemStaleErrors, FilesystemRetryDuration: NFS stale-handle retries
//     by operation and volume ("cache", "archive", "unknown")
//
// Call InitializeMetrics once at startup so every label combination is
// exported from the first scrape.
package metrics
