package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/SoonerRobotics/SusScope/internal/logging"
	"github.com/SoonerRobotics/SusScope/internal/startup"
	"github.com/SoonerRobotics/SusScope/internal/transcoder"
)

type commandContext struct {
	root *cobra.Command

	configPath string
	cacheDir   string
	ffmpegPath string
	logMember  string
	logLevel   string

	configOnce sync.Once
	config     *startup.Config
	configErr  error
}

func (c *commandContext) bindFlags(root *cobra.Command) {
	c.root = root
	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "TOML configuration file (overrides SUSSCOPE_CONFIG)")
	flags.StringVar(&c.cacheDir, "cache-dir", "", "Media cache directory (overrides CACHE_DIR)")
	flags.StringVar(&c.ffmpegPath, "ffmpeg", "", "FFmpeg binary (overrides FFMPEG_PATH)")
	flags.StringVar(&c.logMember, "log-member", "", "Session log member name (overrides LOG_MEMBER)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func (c *commandContext) applyLogLevel() error {
	if !c.root.PersistentFlags().Changed("log-level") {
		return nil
	}
	level, ok := logging.ParseLevel(c.logLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", c.logLevel)
	}
	logging.SetLevel(level)
	return nil
}

// applyOverrides copies explicitly set persistent flags onto config. The
// log level flag is reapplied so it wins over a level from the config file.
func (c *commandContext) applyOverrides(config *startup.Config) {
	flags := c.root.PersistentFlags()
	if flags.Changed("log-level") {
		if level, ok := logging.ParseLevel(c.logLevel); ok {
			logging.SetLevel(level)
			config.LogLevel = c.logLevel
		}
	}
	if flags.Changed("cache-dir") {
		config.CacheDir = c.cacheDir
	}
	if flags.Changed("ffmpeg") {
		config.FFmpegPath = c.ffmpegPath
	}
	if flags.Changed("log-member") {
		config.LogMember = c.logMember
	}
}

// ensureConfig loads configuration once for one-shot commands, without the
// startup banner.
func (c *commandContext) ensureConfig() (*startup.Config, error) {
	c.configOnce.Do(func() {
		config, err := startup.Load(c.configPath)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(config)
		if err := config.Prepare(); err != nil {
			c.configErr = err
			return
		}
		c.config = config
	})
	return c.config, c.configErr
}

func newTranscoder(config *startup.Config) *transcoder.Transcoder {
	return transcoder.New(transcoder.Config{
		CacheDir:   config.CacheDir,
		FFmpegPath: config.FFmpegPath,
		Workers:    config.TranscodeWorkers,
		Timeout:    config.TranscodeTimeout,
		Disabled:   !config.TranscodingEnabled,
	})
}
