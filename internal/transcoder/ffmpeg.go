package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner converts the media file at input into an MP4 file at output.
type Runner interface {
	Run(ctx context.Context, input, output string) error
}

// FFmpegRunner runs an external ffmpeg binary.
type FFmpegRunner struct {
	// Path is the ffmpeg executable; empty means "ffmpeg" from PATH.
	Path string
}

func ffmpegArgs(input, output string) []string {
	return []string{
		"-nostdin",
		"-y",
		"-loglevel", "error",
		"-i", input,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-f", "mp4",
		output,
	}
}

// Run executes ffmpeg and waits for it to exit. Output on stdout is
// discarded; stderr is folded into the returned error.
func (r FFmpegRunner) Run(ctx context.Context, input, output string) error {
	path := r.Path
	if path == "" {
		path = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, path, ffmpegArgs(input, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg error: %w - %s", err, msg)
		}
		return fmt.Errorf("ffmpeg error: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
