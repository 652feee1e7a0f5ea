package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/SoonerRobotics/SusScope/internal/metrics"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestNewResponseWriter(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}
	if rw.bytesWritten != 0 || rw.wroteHeader {
		t.Error("Expected a fresh writer")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Status code = %d, want first value 404", rw.statusCode)
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.Write([]byte("hello "))
	rw.Write([]byte("world"))

	if rw.bytesWritten != 11 {
		t.Errorf("bytesWritten = %d, want 11", rw.bytesWritten)
	}
	if w.Body.String() != "hello world" {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		config        LoggingConfig
		expectLogging bool
	}{
		{"Logs API requests", "/api/archive", DefaultLoggingConfig(), true},
		{"Skips media when static logging is off", "/media/%2Fcache%2Fa.mp4", DefaultLoggingConfig(), false},
		{"Logs media when static logging is on", "/media/%2Fcache%2Fa.mp4", LoggingConfig{MediaPrefixes: []string{"/media/"}, LogStaticFiles: true, LogHealthChecks: true}, true},
		{"Logs health checks when enabled", "/health", LoggingConfig{LogHealthChecks: true}, true},
		{"Skips health checks when disabled", "/livez", LoggingConfig{LogHealthChecks: false}, false},
		{"Skips configured paths", "/metrics", LoggingConfig{SkipPaths: []string{"/metrics"}, LogHealthChecks: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			w := httptest.NewRecorder()
			Logger(tt.config)(handler).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			if logged := buf.Len() > 0; logged != tt.expectLogging {
				t.Errorf("Logged = %v, want %v (output %q)", logged, tt.expectLogging, buf.String())
			}
		})
	}
}

func TestLoggerW3CLine(t *testing.T) {
	buf := captureLog(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("0123"))
	})

	config := DefaultLoggingConfig()
	config.LogStaticFiles = true
	req := httptest.NewRequest("GET", "/media/clip.mp4?x=1", http.NoBody)
	req.Header.Set("Range", "bytes=0-3")
	req.Header.Set("User-Agent", "test agent")
	req.RemoteAddr = "127.0.0.1:5555"

	Logger(config)(handler).ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"127.0.0.1 GET /media/clip.mp4 x=1 206 4 ", "bytes=0-3", `"test agent"`} {
		if !strings.Contains(line, want) {
			t.Errorf("Log line %q missing %q", line, want)
		}
	}
}

func TestLoggerDirectivesOnce(t *testing.T) {
	buf := captureLog(t)
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for range 3 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/archive", http.NoBody))
	}

	out := buf.String()
	if n := strings.Count(out, "#Fields: "); n != 1 {
		t.Errorf("#Fields directive written %d times, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "#Fields: date time c-ip") || !strings.Contains(out, "#Software: SusScope/1.0") {
		t.Errorf("Missing directives:\n%s", out)
	}
	if n := strings.Count(out, " GET /api/archive "); n != 3 {
		t.Errorf("Request lines = %d, want 3", n)
	}
}

func TestEscapeW3CField(t *testing.T) {
	tests := map[string]string{
		"plain":       "plain",
		"two words":   `"two words"`,
		`say "hi"`:    `"say ""hi"""`,
		"tab\there":   "\"tab\there\"",
	}
	for in, want := range tests {
		if got := escapeW3CField(in); got != want {
			t.Errorf("escapeW3CField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := map[string]string{
		"plain":         "plain",
		"a\nb":          "a b",
		"a\r\nb":        "a  b",
		"nul\x00byte":   "nulbyte",
		"\x1b[31mred":   "[31mred",
		"tab\tkept":     "tab\tkept",
		"bell\x07strip": "bellstrip",
	}
	for in, want := range tests {
		if got := sanitizeLogField(in); got != want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"Remote addr", nil, "127.0.0.1:1234", "127.0.0.1"},
		{"Forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "127.0.0.1:1", "10.0.0.1"},
		{"Real IP", map[string]string{"X-Real-IP": "10.0.0.9"}, "127.0.0.1:1", "10.0.0.9"},
		{"IPv6 remote addr", nil, "[::1]:8765", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/archive":                 "/api/archive",
		"/api/cache/clear":             "/api/cache/clear",
		"/media/%2Fcache%2Fab%2Fa.mp4": "/media/{path}",
		"/media/tmp/a/b/c.mp4":         "/media/{path}",
		"/api/a/b/c/d":                 "/api/a/b/{path}",
		"/health":                      "/health",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wrapped := Metrics(DefaultMetricsConfig())(handler)

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/media/{path}", "404")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest("GET", "/media/%2Fnope.mp4", http.NoBody)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", w.Code)
	}
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("Request counter delta = %v, want 1", got)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, ok := w.(*responseWriter); ok {
			t.Error("Skipped path should not be wrapped")
		}
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Metrics(DefaultMetricsConfig())(handler)

	for _, path := range []string{"/metrics", "/health", "/livez", "/readyz"} {
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, http.NoBody))
	}
}

func TestResponseWriterFlush(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	var _ http.Flusher = rw
	rw.Write([]byte("x"))
	rw.Flush()

	if !w.Flushed {
		t.Error("Flush should reach the underlying writer")
	}
	if rw.Unwrap() != http.ResponseWriter(w) {
		t.Error("Unwrap should return the underlying writer")
	}
}
