package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SoonerRobotics/SusScope/internal/handlers"
	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/metrics"
	"github.com/SoonerRobotics/SusScope/internal/middleware"
	"github.com/SoonerRobotics/SusScope/internal/protocol"
	"github.com/SoonerRobotics/SusScope/internal/session"
	"github.com/SoonerRobotics/SusScope/internal/startup"
)

// metricsInterval is how often cache gauges are refreshed.
const metricsInterval = time.Minute

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		listenAddr string
		archive    string
		workers    int
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the loopback command and media API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			config, err := startup.LoadConfig(ctx.configPath, ctx.applyOverrides, func(c *startup.Config) {
				if flags.Changed("listen") {
					c.ListenAddr = listenAddr
				}
				if flags.Changed("archive") {
					c.ArchivePath = archive
				}
				if flags.Changed("workers") {
					c.TranscodeWorkers = workers
				}
				if flags.Changed("timeout") {
					c.TranscodeTimeout = timeout
				}
			})
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			serveCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				select {
				case sig := <-sigChan:
					startup.LogShutdownInitiated(sig.String())
					cancel()
				case <-serveCtx.Done():
				}
			}()

			return runServer(serveCtx, config)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&listenAddr, "listen", "", "Listen address (overrides LISTEN_ADDR)")
	flags.StringVar(&archive, "archive", "", "Archive to open at startup (overrides ARCHIVE_PATH)")
	flags.IntVar(&workers, "workers", 0, "Concurrent transcodes, 0 for one per CPU (overrides TRANSCODE_WORKERS)")
	flags.DurationVar(&timeout, "timeout", 0, "Upper bound for one transcode (overrides TRANSCODE_TIMEOUT)")

	return cmd
}

// runServer serves until ctx is canceled, then shuts down gracefully.
func runServer(ctx context.Context, config *startup.Config) error {
	startTime := time.Now()

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	sess := session.New()
	if config.ArchivePath != "" {
		sess.SetActiveArchive(config.ArchivePath)
	}
	startup.LogSessionInit(config.ArchivePath)

	trans := newTranscoder(config)
	startup.LogTranscoderInit(config.TranscodingEnabled, config.FFmpegPath, trans.Workers())

	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(trans, metricsInterval)
		collector.Start()
	}

	h := handlers.New(sess, trans, protocol.New(trans.CacheRoot()), config)
	router := h.Router(config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.RequestID(handler)

	if !isLoopback(config.ListenAddr) {
		logging.Warn("LISTEN_ADDR %s is not a loopback address; the API has no authentication", config.ListenAddr)
	}

	listener, err := net.Listen("tcp", config.ListenAddr)
	if err != nil {
		if collector != nil {
			collector.Stop()
		}
		return fmt.Errorf("listen on %s: %w", config.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      0, // media streams are bounded by the streaming writer
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		ListenAddr:      listener.Addr().String(),
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdown(srv, trans.Cleanup, collector)
	return serveErr
}

func shutdown(srv *http.Server, cleanupTranscoder func(), collector *metrics.Collector) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Cleaning up transcoder")
	cleanupTranscoder()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownComplete()
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
