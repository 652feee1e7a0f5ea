package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"read", "extract", "list"} {
		for _, status := range []string{"success", "no_archive", "unreadable", "not_found", "error"} {
			ArchiveReadsTotal.WithLabelValues(op, status)
		}
		ArchiveReadDuration.WithLabelValues(op)
	}

	for _, status := range []string{"success", "error", "timeout"} {
		TranscoderJobsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"200", "206", "400", "404", "416", "500"} {
		StreamResponsesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"stat", "open"} {
		for _, vol := range []string{"cache", "archive", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
