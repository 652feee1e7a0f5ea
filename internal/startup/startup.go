package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/SoonerRobotics/SusScope/internal/archive"
	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	CacheDir         string
	ListenAddr       string
	LogMember        string
	FFmpegPath       string
	ArchivePath      string
	TranscodeTimeout time.Duration
	TranscodeWorkers int
	LogStaticFiles   bool
	LogHealthChecks  bool
	MetricsEnabled   bool
	LogLevel         string
	ConfigFile       string

	// Set by Prepare.
	TranscodingEnabled bool
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		CacheDir:         defaultCacheDir(),
		ListenAddr:       "127.0.0.1:8765",
		LogMember:        archive.DefaultLogMember,
		FFmpegPath:       "ffmpeg",
		TranscodeTimeout: 10 * time.Minute,
		LogHealthChecks:  true,
		MetricsEnabled:   true,
	}
}

// Load builds configuration from defaults, an optional TOML file and the
// environment, in increasing precedence. A non-empty path names the file;
// otherwise SUSSCOPE_CONFIG is consulted. Nothing is logged and the
// filesystem is only read.
func Load(path string) (*Config, error) {
	config := Defaults()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if config.LogLevel != "" && os.Getenv("LOG_LEVEL") == "" && os.Getenv("DEBUG") == "" {
		if level, ok := logging.ParseLevel(config.LogLevel); ok {
			logging.SetLevel(level)
		}
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.CacheDir = getEnv("CACHE_DIR", c.CacheDir)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.LogMember = getEnv("LOG_MEMBER", c.LogMember)
	c.FFmpegPath = getEnv("FFMPEG_PATH", c.FFmpegPath)
	c.ArchivePath = getEnv("ARCHIVE_PATH", c.ArchivePath)
	c.TranscodeWorkers = getEnvInt("TRANSCODE_WORKERS", c.TranscodeWorkers)
	c.LogStaticFiles = getEnvBool("LOG_STATIC_FILES", c.LogStaticFiles)
	c.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.LogHealthChecks)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)

	if timeoutStr := os.Getenv("TRANSCODE_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil || timeout <= 0 {
			logging.Warn("Invalid TRANSCODE_TIMEOUT %q, using: %v", timeoutStr, c.TranscodeTimeout)
		} else {
			c.TranscodeTimeout = timeout
		}
	}
}

// LoadConfig loads configuration from path, applies overrides, logs it and
// prepares the cache directory.
func LoadConfig(path string, overrides ...func(*Config)) (*Config, error) {
	printBanner()
	logSystemInfo()

	config, err := Load(path)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(config)
	}
	logConfig(config)

	logSection("DIRECTORY SETUP")
	if err := config.Prepare(); err != nil {
		return nil, err
	}
	logging.Info("  Cache directory (absolute): %s", config.CacheDir)
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Transcoding: %s", enabledString(config.TranscodingEnabled))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// Prepare resolves the cache directory to an absolute path and enables
// transcoding when it is writable.
func (c *Config) Prepare() error {
	cacheDir, err := filepath.Abs(c.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	c.CacheDir = cacheDir

	if c.ArchivePath != "" {
		if archivePath, err := filepath.Abs(c.ArchivePath); err == nil {
			c.ArchivePath = archivePath
		}
	}

	c.TranscodingEnabled = cacheDirUsable(cacheDir)
	return nil
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "susscope")
}

// cacheDirUsable creates dir if needed and probes it for writes. A false
// result disables transcoding rather than failing startup.
func cacheDirUsable(dir string) bool {
	logging.Debug("  Preparing cache directory: %s", dir)

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Warn("    Cannot create cache directory: %v", err)
			logging.Warn("    Transcoding will be disabled")
			return false
		}
		logging.Debug("    [OK] Created %s", dir)
	case err != nil:
		logging.Warn("    Cannot stat cache directory: %v", err)
		logging.Warn("    Transcoding will be disabled")
		return false
	case !info.IsDir():
		logging.Warn("    Cache path %s is not a directory", dir)
		logging.Warn("    Transcoding will be disabled")
		return false
	}

	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		logging.Warn("    Cache directory is not writable: %v", err)
		logging.Warn("    Transcoding will be disabled")
		return false
	}
	if err := os.Remove(probe); err != nil {
		logging.Warn("failed to remove write probe %s: %v", probe, err)
	}

	logging.Debug("    [OK] Cache directory ready")
	return true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
