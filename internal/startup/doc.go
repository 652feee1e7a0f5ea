// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [Load] layers built-in defaults, an optional TOML file and environment
// variables, in that order; [LoadConfig] additionally prints the banner,
// echoes the settings and prepares the cache directory. Command-line flags
// are applied as overrides on top of the environment.
//
// The file is named by --config or SUSSCOPE_CONFIG and uses snake_case keys
// matching the variables below (cache_dir, listen_addr, transcode_timeout,
// and so on). Unknown keys are rejected.
//
//   - CACHE_DIR: media cache root (default: the user cache dir + /susscope)
//   - LISTEN_ADDR: loopback address for the command and media API (default: 127.0.0.1:8765)
//   - LOG_MEMBER: name of the session log inside an archive (default: output.suslog)
//   - FFMPEG_PATH: transcoder binary (default: ffmpeg)
//   - TRANSCODE_TIMEOUT: upper bound for one transcode as a Go duration (default: 10m)
//   - TRANSCODE_WORKERS: concurrent transcodes, 0 for one per CPU up to 4 (default: 0)
//   - ARCHIVE_PATH: archive to open at startup (default: none)
//   - METRICS_ENABLED: expose /metrics (default: true)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: log media requests (default: false)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//
// When the cache directory cannot be created or written, transcoding is
// disabled instead of failing startup.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
