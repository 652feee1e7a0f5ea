package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

const rule = "------------------------------------------------------------"

func logSection(title string) {
	logging.Info("")
	logging.Info(rule)
	logging.Info("%s", title)
	logging.Info(rule)
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func printBanner() {
	banner := `
` + rule + `
   _____            _____
  / ___/__  _______/ ___/_________  ____  ___
  \__ \/ / / / ___/\__ \/ ___/ __ \/ __ \/ _ \
 ___/ / /_/ (__  )___/ / /__/ /_/ / /_/ /  __/
/____/\__,_/____//____/\___/\____/ .___/\___/
                                  /_/
` + rule
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	logSection("SYSTEM INFORMATION")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}

// logConfig echoes the effective settings under their environment names.
func logConfig(config *Config) {
	logSection("CONFIGURATION")

	settings := [][2]string{
		{"CONFIG_FILE", config.ConfigFile},
		{"CACHE_DIR", config.CacheDir},
		{"LISTEN_ADDR", config.ListenAddr},
		{"LOG_MEMBER", config.LogMember},
		{"FFMPEG_PATH", config.FFmpegPath},
		{"ARCHIVE_PATH", config.ArchivePath},
		{"TRANSCODE_TIMEOUT", config.TranscodeTimeout.String()},
		{"TRANSCODE_WORKERS", fmt.Sprint(config.TranscodeWorkers)},
		{"METRICS_ENABLED", fmt.Sprint(config.MetricsEnabled)},
		{"LOG_STATIC_FILES", fmt.Sprint(config.LogStaticFiles)},
		{"LOG_HEALTH_CHECKS", fmt.Sprint(config.LogHealthChecks)},
		{"LOG_LEVEL", logging.GetLevel().String()},
	}
	for _, kv := range settings {
		if kv[1] == "" {
			continue
		}
		logging.Info("  %-20s %s", kv[0]+":", kv[1])
	}
}

// LogSessionInit logs the archive preselected at startup, if any.
func LogSessionInit(archivePath string) {
	logSection("SESSION INITIALIZATION")
	if archivePath == "" {
		logging.Info("  No archive selected; waiting for an archive to be opened")
		return
	}
	logging.Info("  Active archive: %s", archivePath)
}

// LogTranscoderInit logs transcoder initialization and checks FFmpeg
func LogTranscoderInit(enabled bool, ffmpegPath string, workers int) {
	logSection("TRANSCODER INITIALIZATION")

	if !enabled {
		logging.Warn("  Transcoding disabled (cache directory not writable)")
		logging.Warn("  Clips will not play")
		return
	}

	logging.Info("  Workers: %d", workers)
	if version, err := ffmpegVersion(ffmpegPath); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Clips will fail to transcode until %s is installed", ffmpegPath)
	} else {
		logging.Info("  [OK] %s", version)
	}
}

// ffmpegVersion returns the first line of `ffmpeg -version`.
func ffmpegVersion(ffmpegPath string) (string, error) {
	path, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return "", fmt.Errorf("%s not found: %w", ffmpegPath, err)
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get ffmpeg version: %w", err)
	}
	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first), nil
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router. Routes
// without a method matcher are reported with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: path, Name: route.GetName()})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the request logging switches and, at debug level,
// every registered route grouped by its first path segment.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logSection("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}
		sort.SliceStable(routes, func(i, j int) bool {
			gi, gj := getRouteGroup(routes[i].Path), getRouteGroup(routes[j].Path)
			if gi != gj {
				return gi < gj
			}
			return routes[i].Path < routes[j].Path
		})

		logging.Debug("  Registered routes (%d total):", len(routes))
		group := "\x00"
		for _, route := range routes {
			if g := getRouteGroup(route.Path); g != group {
				group = g
				if group == "" {
					logging.Debug("  [root]")
				} else {
					logging.Debug("  [%s]", group)
				}
			}
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	logging.Info("  HTTP logging enabled")
	logging.Info("    Media requests: %s", onOff(logStaticFiles, "LOG_STATIC_FILES"))
	logging.Info("    Health checks:  %s", onOff(logHealthChecks, "LOG_HEALTH_CHECKS"))
}

func onOff(on bool, envName string) string {
	if on {
		return "ON"
	}
	return "OFF (set " + envName + "=true to enable)"
}

// getRouteGroup returns the first path segment, or "api/<resource>" for
// API routes.
func getRouteGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		resource, _, _ := strings.Cut(rest, "/")
		return "api/" + resource
	}
	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	ListenAddr      string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logSection("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Commands:      http://%s/api", config.ListenAddr)
	logging.Info("    Media:         http://%s/media/", config.ListenAddr)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://%s/metrics", config.ListenAddr)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logSection("SHUTDOWN INITIATED (received " + signal + ")")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
