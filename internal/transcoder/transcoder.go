package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/SoonerRobotics/SusScope/internal/archive"
	"github.com/SoonerRobotics/SusScope/internal/filesystem"
	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/metrics"
	"github.com/SoonerRobotics/SusScope/internal/workers"
)

// DefaultTimeout bounds a single transcode when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Minute

// maxWorkers caps the default worker pool.
const maxWorkers = 4

// Sentinel errors returned by Resolve.
var (
	// ErrMemberUnavailable indicates the clip could not be read from the archive.
	ErrMemberUnavailable = errors.New("clip unavailable")

	// ErrStageWriteFailed indicates the cache directory could not be written.
	ErrStageWriteFailed = errors.New("cache write failed")

	// ErrTranscodeFailed indicates the transcoder did not produce an artifact.
	ErrTranscodeFailed = errors.New("transcode failed")
)

// Config configures a Transcoder.
type Config struct {
	CacheDir   string
	FFmpegPath string
	// Workers overrides the pool size; 0 means one per CPU, at most 4.
	Workers int
	Timeout time.Duration
	// Runner replaces the ffmpeg runner.
	Runner Runner
	// Disabled turns every cache miss into ErrStageWriteFailed.
	Disabled bool
}

// Transcoder resolves archive clips to playable files in the cache.
type Transcoder struct {
	cacheDir string
	enabled  bool
	runner   Runner
	timeout  time.Duration
	workers  int
	retry    filesystem.RetryConfig

	group singleflight.Group
	sem   *semaphore.Weighted

	jobsMu sync.Mutex
	jobs   map[string]context.CancelFunc
}

// New creates a Transcoder.
func New(config Config) *Transcoder {
	runner := config.Runner
	if runner == nil {
		runner = FFmpegRunner{Path: config.FFmpegPath}
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	n := workers.ForCPU(config.Workers, maxWorkers)

	return &Transcoder{
		cacheDir: config.CacheDir,
		enabled:  !config.Disabled,
		runner:   runner,
		timeout:  timeout,
		workers:  n,
		retry:    filesystem.CacheRetryConfig(),
		sem:      semaphore.NewWeighted(int64(n)),
		jobs:     make(map[string]context.CancelFunc),
	}
}

// IsEnabled returns whether transcoding is enabled.
func (t *Transcoder) IsEnabled() bool {
	return t.enabled
}

// CacheRoot returns the directory holding materialized artifacts.
func (t *Transcoder) CacheRoot() string {
	return t.cacheDir
}

// Workers returns the maximum number of concurrent transcodes.
func (t *Transcoder) Workers() int {
	return t.workers
}

// Resolve returns the path of a playable MP4 for memberName inside the
// archive at archivePath, transcoding it on a cache miss.
//
// A transcode that has started is not canceled when ctx is; the caller
// stops waiting and the artifact is still produced for later requests.
func (t *Transcoder) Resolve(ctx context.Context, archivePath, memberName string) (string, error) {
	if archivePath == "" {
		return "", archive.ErrNoActiveArchive
	}
	e, ok := t.entryFor(archivePath, memberName)
	if !ok {
		return "", fmt.Errorf("%w: invalid member name %q", ErrMemberUnavailable, memberName)
	}

	if filesystem.Exists(e.finalPath, t.retry) {
		metrics.CacheHitsTotal.Inc()
		logging.Debug("Cache hit for %s: %s", memberName, e.finalPath)
		return e.finalPath, nil
	}

	if !t.enabled {
		return "", fmt.Errorf("%w: transcoding disabled (cache directory not writable)", ErrStageWriteFailed)
	}

	ch := t.group.DoChan(e.key, func() (any, error) {
		return t.materialize(e)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.TranscoderSharedResultsTotal.Inc()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ResolvePlayable is Resolve with failures collapsed to an empty path.
func (t *Transcoder) ResolvePlayable(ctx context.Context, archivePath, memberName string) string {
	p, err := t.Resolve(ctx, archivePath, memberName)
	if err != nil {
		logging.Warn("Failed to resolve %s from %s: %v", memberName, archivePath, err)
		return ""
	}
	return p
}

func (t *Transcoder) materialize(e entry) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStageWriteFailed, err)
	}

	lock := flock.New(e.lockPath)
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("%w: lock %s: %w", ErrStageWriteFailed, e.lockPath, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Warn("failed to release lock %s: %v", e.lockPath, err)
		}
	}()

	// Another process may have finished while we waited for the lock.
	if filesystem.Exists(e.finalPath, t.retry) {
		metrics.CacheHitsTotal.Inc()
		return e.finalPath, nil
	}
	metrics.CacheMissesTotal.Inc()

	// Never fails with a background context.
	_ = t.sem.Acquire(context.Background(), 1)
	defer t.sem.Release(1)

	if err := t.stage(e); err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(e.stagedPath); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove staged file %s: %v", e.stagedPath, err)
		}
	}()

	if err := t.transcode(e); err != nil {
		return "", err
	}
	return e.finalPath, nil
}

// stage extracts the clip into its staged path, replacing earlier content.
func (t *Transcoder) stage(e entry) error {
	f, err := os.Create(e.stagedPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStageWriteFailed, err)
	}

	n, err := archive.ExtractMember(e.archivePath, e.member, f)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(e.stagedPath)
		var writeErr *archive.WriteError
		if errors.As(err, &writeErr) {
			return fmt.Errorf("%w: %w", ErrStageWriteFailed, err)
		}
		return fmt.Errorf("%w: %w", ErrMemberUnavailable, err)
	}
	if closeErr != nil {
		_ = os.Remove(e.stagedPath)
		return fmt.Errorf("%w: %w", ErrStageWriteFailed, closeErr)
	}

	logging.Debug("Staged %s (%s) at %s", e.member, humanize.Bytes(uint64(n)), e.stagedPath)
	return nil
}

func (t *Transcoder) transcode(e entry) error {
	tmpPath := filepath.Join(e.dir, e.baseName+"."+uuid.NewString()+partExt)

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	t.trackJob(e.key, cancel)
	defer t.untrackJob(e.key)

	metrics.TranscoderJobsInProgress.Inc()
	defer metrics.TranscoderJobsInProgress.Dec()

	logging.Info("Transcoding %s from %s", e.member, e.archivePath)
	start := time.Now()
	err := t.runner.Run(ctx, e.stagedPath, tmpPath)
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(tmpPath)
		if err == nil && info.Size() == 0 {
			err = errors.New("empty output")
		}
	}
	if err == nil {
		err = os.Rename(tmpPath, e.finalPath)
	}
	duration := time.Since(start)
	metrics.TranscoderJobDuration.Observe(duration.Seconds())

	if err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("failed to remove partial output %s: %v", tmpPath, rmErr)
		}
		status := "error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			status = "timeout"
		}
		metrics.TranscoderJobsTotal.WithLabelValues(status).Inc()
		logging.Error("Transcode of %s failed after %v: %v", e.member, duration, err)
		return fmt.Errorf("%w: %s: %w", ErrTranscodeFailed, e.member, err)
	}

	metrics.TranscoderJobsTotal.WithLabelValues("success").Inc()
	logging.Info("Transcoded %s in %v", e.member, duration.Round(time.Millisecond))
	return nil
}

func (t *Transcoder) trackJob(key string, cancel context.CancelFunc) {
	t.jobsMu.Lock()
	t.jobs[key] = cancel
	t.jobsMu.Unlock()
}

func (t *Transcoder) untrackJob(key string) {
	t.jobsMu.Lock()
	delete(t.jobs, key)
	t.jobsMu.Unlock()
}

// Cleanup stops all active transcoding processes.
func (t *Transcoder) Cleanup() {
	t.jobsMu.Lock()
	defer t.jobsMu.Unlock()

	for key, cancel := range t.jobs {
		logging.Info("Killing transcoding process for: %s", key)
		cancel()
	}
}

// ClearCache removes all cached files and returns the number of bytes freed.
func (t *Transcoder) ClearCache() (int64, error) {
	if t.cacheDir == "" {
		return 0, nil
	}

	var freedBytes int64

	entries, err := os.ReadDir(t.cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		p := filepath.Join(t.cacheDir, entry.Name())

		if entry.IsDir() {
			size, _ := getDirSize(p)
			if err := os.RemoveAll(p); err != nil {
				logging.Warn("failed to remove directory %s: %v", p, err)
				continue
			}
			freedBytes += size
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logging.Warn("failed to get info for %s: %v", p, err)
			continue
		}
		if err := os.Remove(p); err != nil {
			logging.Warn("failed to remove file %s: %v", p, err)
			continue
		}
		freedBytes += info.Size()
	}

	logging.Info("Cleared media cache: freed %s", humanize.Bytes(uint64(freedBytes)))
	return freedBytes, nil
}
