package protocol

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SoonerRobotics/SusScope/internal/filesystem"
	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/metrics"
	"github.com/SoonerRobotics/SusScope/internal/streaming"
)

const (
	// Scheme is the custom URI scheme for media resources.
	Scheme = "susscope"
	// Host is the only authority the scheme uses.
	Host = "localhost"

	contentType = "video/mp4"
)

// Response is the outcome of a media request. Body is never nil and must
// be closed by the caller.
type Response struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
	Length int64
}

// Handler answers media requests for files under Root.
type Handler struct {
	Root         string
	StreamConfig streaming.TimeoutWriterConfig
	retry        filesystem.RetryConfig
}

// New creates a Handler that serves files inside root.
func New(root string) *Handler {
	return &Handler{
		Root:         root,
		StreamConfig: streaming.DefaultTimeoutWriterConfig(),
		retry:        filesystem.CacheRetryConfig(),
	}
}

// URIFor builds the resource URI for a file path.
func URIFor(path string) string {
	return Scheme + "://" + Host + "/" + url.PathEscape(path)
}

// decodePath extracts the file path from a resource URI.
func decodePath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Opaque != "" {
		return "", false
	}
	if u.Scheme != "" && !strings.EqualFold(u.Scheme, Scheme) {
		return "", false
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.ContainsRune(p, 0) {
		return "", false
	}
	if !filepath.IsAbs(p) {
		p = "/" + p
	}
	return filepath.Clean(filepath.FromSlash(p)), true
}

// Respond resolves uri to a file and builds the response, honoring a
// single byte range from rangeHeader.
func (h *Handler) Respond(uri, rangeHeader string) *Response {
	p, ok := decodePath(uri)
	if !ok {
		logging.Debug("Rejected media URI %q", uri)
		return textResponse(http.StatusBadRequest, "invalid resource path")
	}

	if !filesystem.IsSubPath(h.Root, p) {
		logging.Warn("Media request outside cache root: %s", p)
		return textResponse(http.StatusNotFound, "not found")
	}

	f, err := filesystem.OpenWithRetry(p, h.retry)
	if err != nil {
		logging.Debug("Media file not found: %s: %v", p, err)
		return textResponse(http.StatusNotFound, "not found")
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		closeFile(f)
		if err == nil {
			err = errors.New("is a directory")
		}
		logging.Error("Cannot serve %s: %v", p, err)
		return textResponse(http.StatusInternalServerError, "failed to read resource")
	}

	size := info.Size()
	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set("Accept-Ranges", "bytes")

	if rangeHeader != "" {
		br, err := streaming.ParseRange(rangeHeader, size)
		switch {
		case err == nil:
			header.Set("Content-Range", br.ContentRange())
			header.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
			return record(&Response{
				Status: http.StatusPartialContent,
				Header: header,
				Body:   &sectionBody{SectionReader: io.NewSectionReader(f, br.Start, br.Length()), f: f},
				Length: br.Length(),
			})
		case errors.Is(err, streaming.ErrRangeNotSatisfiable):
			closeFile(f)
			header.Set("Content-Range", streaming.UnsatisfiedContentRange(size))
			header.Set("Content-Length", "0")
			return record(&Response{
				Status: http.StatusRequestedRangeNotSatisfiable,
				Header: header,
				Body:   http.NoBody,
			})
		default:
			logging.Debug("Ignoring unusable Range %q for %s", rangeHeader, p)
		}
	}

	if size > 0 {
		header.Set("Content-Range", streaming.FullRange(size).ContentRange())
	}
	header.Set("Content-Length", strconv.FormatInt(size, 10))
	return record(&Response{
		Status: http.StatusOK,
		Header: header,
		Body:   f,
		Length: size,
	})
}

// ServeHTTP serves a request whose path (after any stripped prefix) is the
// percent-encoded file path of a resource URI.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri := Scheme + "://" + Host + "/" + strings.TrimPrefix(r.URL.EscapedPath(), "/")
	resp := h.Respond(uri, r.Header.Get("Range"))
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("failed to close media body: %v", err)
		}
	}()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.Status)

	if r.Method == http.MethodHead {
		return
	}

	config := h.StreamConfig
	config.OnWrite = func(n int) { metrics.StreamBytesTotal.Add(float64(n)) }

	if _, err := streaming.StreamWithTimeout(r.Context(), w, resp.Body, config); err != nil {
		if errors.Is(err, streaming.ErrClientGone) || errors.Is(err, streaming.ErrWriteTimeout) {
			logging.Debug("Stream ended: %v", err)
			return
		}
		logging.Warn("Error streaming media: %v", err)
	}
}

func textResponse(status int, msg string) *Response {
	header := http.Header{}
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(msg)))
	return record(&Response{
		Status: status,
		Header: header,
		Body:   io.NopCloser(strings.NewReader(msg)),
		Length: int64(len(msg)),
	})
}

func record(resp *Response) *Response {
	metrics.StreamResponsesTotal.WithLabelValues(strconv.Itoa(resp.Status)).Inc()
	return resp
}

type sectionBody struct {
	*io.SectionReader
	f *os.File
}

func (b *sectionBody) Close() error {
	return b.f.Close()
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		logging.Warn("failed to close %s: %v", f.Name(), err)
	}
}
