package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write operation exceeded the configured timeout.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the stream completed.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates that the stream was closed or idled out.
	ErrStreamCanceled = errors.New("stream canceled")
)

// TimeoutWriterConfig configures the timeout writer behavior
type TimeoutWriterConfig struct {
	// WriteTimeout bounds a single chunk write.
	WriteTimeout time.Duration
	// IdleTimeout cancels the stream when no write succeeds for this long.
	IdleTimeout time.Duration
	// ChunkSize splits large writes; 0 writes as received.
	ChunkSize int
	// OnWrite is called after every successful write with its byte count.
	OnWrite func(n int)
}

// DefaultTimeoutWriterConfig returns defaults tuned for video bodies
func DefaultTimeoutWriterConfig() TimeoutWriterConfig {
	return TimeoutWriterConfig{
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ChunkSize:    256 * 1024,
	}
}

// TimeoutWriter bounds writes to an http.ResponseWriter. Connections that
// support write deadlines get one per chunk; other writers are raced
// against a timer.
type TimeoutWriter struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	deadlines bool
	ctx       context.Context
	cancel    context.CancelFunc
	config    TimeoutWriterConfig
	idle      *time.Timer

	mu           sync.Mutex
	startTime    time.Time
	bytesWritten int64
	closed       bool
	idled        bool
}

// NewTimeoutWriter creates a new timeout-protected writer. Close must be
// called to release the idle timer and any write deadline.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, config TimeoutWriterConfig) *TimeoutWriter {
	writerCtx, cancel := context.WithCancel(ctx)
	rc := http.NewResponseController(w)

	tw := &TimeoutWriter{
		w:         w,
		rc:        rc,
		deadlines: rc.SetWriteDeadline(time.Time{}) == nil,
		ctx:       writerCtx,
		cancel:    cancel,
		config:    config,
		startTime: time.Now(),
	}
	if config.IdleTimeout > 0 {
		tw.idle = time.AfterFunc(config.IdleTimeout, tw.onIdle)
	}
	return tw
}

func (tw *TimeoutWriter) onIdle() {
	tw.mu.Lock()
	if tw.closed {
		tw.mu.Unlock()
		return
	}
	tw.idled = true
	tw.mu.Unlock()

	logging.Warn("Stream idle timeout exceeded: %v", tw.config.IdleTimeout)
	tw.cancel()
}

// Write implements io.Writer with timeout protection
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if closed {
		return 0, ErrStreamCanceled
	}

	total := 0
	for len(p) > 0 {
		if tw.ctx.Err() != nil {
			return total, tw.contextError()
		}

		size := len(p)
		if tw.config.ChunkSize > 0 && size > tw.config.ChunkSize {
			size = tw.config.ChunkSize
		}

		n, err := tw.writeChunk(p[:size])
		total += n
		if err != nil {
			return total, err
		}
		p = p[size:]

		// best effort; recorders and some wrappers cannot flush
		_ = tw.rc.Flush()
	}

	return total, nil
}

func (tw *TimeoutWriter) writeChunk(p []byte) (int, error) {
	if tw.deadlines {
		if err := tw.rc.SetWriteDeadline(time.Now().Add(tw.config.WriteTimeout)); err == nil {
			n, err := tw.w.Write(p)
			tw.record(n)
			if errors.Is(err, os.ErrDeadlineExceeded) {
				tw.cancel()
				return n, ErrWriteTimeout
			}
			return n, err
		}
	}
	return tw.raceChunk(p)
}

// raceChunk writes p on a separate goroutine and gives up after
// WriteTimeout. The abandoned write finishes or fails on its own.
func (tw *TimeoutWriter) raceChunk(p []byte) (int, error) {
	type writeResult struct {
		n   int
		err error
	}
	resultCh := make(chan writeResult, 1)

	go func() {
		n, err := tw.w.Write(p)
		resultCh <- writeResult{n, err}
	}()

	timer := time.NewTimer(tw.config.WriteTimeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		tw.record(result.n)
		return result.n, result.err
	case <-timer.C:
		tw.cancel()
		return 0, ErrWriteTimeout
	case <-tw.ctx.Done():
		return 0, tw.contextError()
	}
}

func (tw *TimeoutWriter) record(n int) {
	if n <= 0 {
		return
	}
	tw.mu.Lock()
	tw.bytesWritten += int64(n)
	tw.mu.Unlock()

	if tw.idle != nil {
		tw.idle.Reset(tw.config.IdleTimeout)
	}
	if tw.config.OnWrite != nil {
		tw.config.OnWrite(n)
	}
}

// contextError maps a done context onto the package's sentinel errors
func (tw *TimeoutWriter) contextError() error {
	tw.mu.Lock()
	canceledByUs := tw.closed || tw.idled
	tw.mu.Unlock()

	if !canceledByUs && errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}

// Close stops the idle timer and clears the write deadline so a kept-alive
// connection can serve the next request.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil
	}
	tw.closed = true
	if tw.idle != nil {
		tw.idle.Stop()
	}
	if tw.deadlines {
		_ = tw.rc.SetWriteDeadline(time.Time{})
	}
	tw.cancel()
	return nil
}

// Stats returns streaming statistics
func (tw *TimeoutWriter) Stats() (bytesWritten int64, duration time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten, time.Since(tw.startTime)
}

// StreamWithTimeout copies r into w with timeout protection and returns the
// number of bytes written. Headers are the caller's responsibility.
func StreamWithTimeout(ctx context.Context, w http.ResponseWriter, r io.Reader, config TimeoutWriterConfig) (int64, error) {
	tw := NewTimeoutWriter(ctx, w, config)
	defer tw.Close()

	_, err := io.Copy(tw, r)

	bytesWritten, duration := tw.Stats()
	logging.Debug("Stream completed: %d bytes in %v", bytesWritten, duration)

	return bytesWritten, err
}
