/*
Package streaming writes media bodies to the presentation layer with timeout
protection and parses byte-range requests.

# Timeout-protected writes

A stalled consumer must not pin a handler goroutine and an open cache file
forever. TimeoutWriter wraps an http.ResponseWriter so that every write is
bounded by WriteTimeout, a stream with no progress for IdleTimeout is
canceled, and large writes are split into ChunkSize pieces that are flushed
individually:

	config := streaming.DefaultTimeoutWriterConfig()
	n, err := streaming.StreamWithTimeout(r.Context(), w, body, config)
	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
		logging.Warn("stream failed after %d bytes: %v", n, err)
	}

StreamWithTimeout leaves all headers to the caller, so a fixed
Content-Length set by the protocol handler is preserved.

# Byte ranges

ParseRange understands a single range in any of the three RFC 9110 forms
(bytes=a-b, bytes=a-, bytes=-n). Multi-range and malformed headers report
ErrInvalidRange so the caller can fall back to the full body; a well-formed
range outside the file reports ErrRangeNotSatisfiable (HTTP 416).

# Errors

	ErrWriteTimeout        a single write exceeded WriteTimeout
	ErrClientGone          the request context was canceled
	ErrStreamCanceled      the writer was closed or timed out idle
	ErrInvalidRange        Range header unusable, serve the whole body
	ErrRangeNotSatisfiable Range header outside the body
*/
package streaming
