// Package logging provides the leveled logger used across SusScope.
//
// Messages are printf-style and go through the standard log package with a
// level tag:
//   - DEBUG: archive lookups, cache hits, ffmpeg command lines
//   - INFO: startup, transcode completions, cache maintenance
//   - WARN: recoverable per-request failures
//   - ERROR: failures that leave a request without a result
//   - FATAL: startup errors that terminate the process
//
// The level comes from LOG_LEVEL (or DEBUG=true) and can be overridden at
// runtime with SetLevel, which the CLI does for --log-level.
package logging
