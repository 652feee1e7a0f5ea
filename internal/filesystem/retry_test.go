package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.Volume != "" {
		t.Errorf("Volume = %q, want empty", config.Volume)
	}
	if ArchiveRetryConfig().Volume != "archive" {
		t.Error("ArchiveRetryConfig should label the archive volume")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ESTALE error", syscall.ESTALE, true},
		{"ENOENT error", syscall.ENOENT, false},
		{"wrapped ESTALE", &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, true},
		{"wrapped fmt ESTALE", fmt.Errorf("open: %w", syscall.ESTALE), true},
		{"generic error", os.ErrPermission, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryConfig_Volume(t *testing.T) {
	config := DefaultRetryConfig()
	if got := config.volume(); got != "unknown" {
		t.Errorf("volume() = %q, want unknown", got)
	}
	if got := CacheRetryConfig(); got.volume() != "cache" {
		t.Errorf("CacheRetryConfig volume = %q, want cache", got.volume())
	}
}

func TestStatWithRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip1.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size = %d, want 4", info.Size())
	}

	start := time.Now()
	_, err = StatWithRetry(filepath.Join(dir, "missing"), DefaultRetryConfig())
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
	if time.Since(start) >= 50*time.Millisecond {
		t.Error("Non-ESTALE errors should not be retried")
	}
}

func TestOpenWithRetry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip1.mp4")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := OpenWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	defer f.Close()

	buf := make([]byte, 5)
	if _, err := f.Read(buf); err != nil || string(buf) != "hello" {
		t.Errorf("Read = %q, %v", buf, err)
	}

	if _, err := OpenWithRetry(filepath.Join(dir, "missing"), DefaultRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestWithRetry_RetriesStaleThenSucceeds(t *testing.T) {
	config := RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
	calls := 0

	got, err := withRetry("stat", "/cache/x", config, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if got != 42 || calls != 3 {
		t.Errorf("got %d after %d calls, want 42 after 3", got, calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	config := RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	calls := 0

	_, err := withRetry("open", "/cache/x", config, func() (struct{}, error) {
		calls++
		return struct{}{}, syscall.ESTALE
	})
	if err != syscall.ESTALE {
		t.Errorf("Expected ESTALE, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip1.mp4")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !Exists(path, DefaultRetryConfig()) {
		t.Error("Expected regular file to exist")
	}
	if Exists(dir, DefaultRetryConfig()) {
		t.Error("Directories should not count as existing artifacts")
	}
	if Exists(filepath.Join(dir, "nope"), DefaultRetryConfig()) {
		t.Error("Missing file should not exist")
	}
}

func TestIsSubPath(t *testing.T) {
	tests := []struct {
		root  string
		child string
		want  bool
	}{
		{"/cache", "/cache", true},
		{"/cache", "/cache/a/b.mp4", true},
		{"/cache", "/cache/../etc/passwd", false},
		{"/cache", "/cache-evil/b.mp4", false},
		{"/cache", "/other", false},
		{"/cache", "/cache/..foo/b.mp4", true},
	}

	for _, tt := range tests {
		t.Run(tt.child, func(t *testing.T) {
			if got := IsSubPath(tt.root, tt.child); got != tt.want {
				t.Errorf("IsSubPath(%q, %q) = %v, want %v", tt.root, tt.child, got, tt.want)
			}
		})
	}
}
