package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// responseWriter records the status and body size of a response.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Flush lets media streams flush through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths []string
	// MediaPrefixes mark media requests, which are logged only when
	// LogStaticFiles is set. A playing clip issues many range requests.
	MediaPrefixes   []string
	LogStaticFiles  bool
	LogHealthChecks bool
}

// DefaultLoggingConfig logs API and health requests but not media.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		MediaPrefixes:   []string{"/media/"},
		LogHealthChecks: true,
	}
}

// w3cFields is the #Fields directive for every line the logger writes.
var w3cFields = []string{
	"date", "time", "c-ip", "cs-method", "cs-uri-stem", "cs-uri-query",
	"sc-status", "sc-bytes", "time-taken", "cs(Range)", "cs(User-Agent)",
	"cs(Referer)", "x-request-id",
}

// W3CLogger writes requests in W3C Extended Log Format. The directive
// header is emitted before the first request line.
type W3CLogger struct {
	config     LoggingConfig
	software   string
	headerOnce sync.Once
}

// NewW3CLogger creates a new W3C format logger
func NewW3CLogger(config LoggingConfig, software string) *W3CLogger {
	return &W3CLogger{config: config, software: software}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// sanitizeLogField strips characters that could forge log lines or drive
// a terminal: newlines become spaces, other control bytes except tab go.
func sanitizeLogField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Logger returns HTTP logging middleware using W3C Extended Log Format
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := NewW3CLogger(config, "SusScope/1.0")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			logger.logRequest(r, wrapped, time.Since(start))
		})
	}
}

func (l *W3CLogger) writeHeader(now time.Time) {
	log.Println("#Version: 1.0")
	log.Println("#Software: " + l.software)
	log.Println("#Date: " + now.Format("2006-01-02 15:04:05"))
	log.Println("#Fields: " + strings.Join(w3cFields, " "))
}

func (l *W3CLogger) logRequest(r *http.Request, rw *responseWriter, duration time.Duration) {
	now := time.Now().UTC()
	l.headerOnce.Do(func() { l.writeHeader(now) })

	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		field(getClientIP(r)),
		field(r.Method),
		field(r.URL.Path),
		field(r.URL.RawQuery),
		strconv.Itoa(rw.statusCode),
		strconv.FormatInt(rw.bytesWritten, 10),
		strconv.FormatInt(duration.Milliseconds(), 10),
		field(r.Header.Get("Range")),
		field(r.Header.Get("User-Agent")),
		field(r.Header.Get("Referer")),
		field(RequestIDFromContext(r.Context())),
	}

	//nolint:gosec // every client-controlled value passes through field()
	log.Println(strings.Join(fields, " "))
}

// field sanitizes a client-controlled value for one W3C column; empty
// values become "-".
func field(s string) string {
	s = sanitizeLogField(s)
	if s == "" {
		return "-"
	}
	return escapeW3CField(s)
}

func (l *W3CLogger) skip(path string) bool {
	for _, skipPath := range l.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}

	if !l.config.LogHealthChecks && healthCheckPaths[path] {
		return true
	}

	if !l.config.LogStaticFiles {
		for _, prefix := range l.config.MediaPrefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// escapeW3CField quotes values containing whitespace or quotes, doubling
// embedded quotes.
func escapeW3CField(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
