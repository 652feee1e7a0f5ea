package startup

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// ConfigFileEnv names the environment variable that points at a TOML
// configuration file.
const ConfigFileEnv = "SUSSCOPE_CONFIG"

// fileConfig is the on-disk form of Config. Unset keys keep their defaults.
type fileConfig struct {
	CacheDir         string `toml:"cache_dir"`
	ListenAddr       string `toml:"listen_addr"`
	LogMember        string `toml:"log_member"`
	FFmpegPath       string `toml:"ffmpeg_path"`
	Archive          string `toml:"archive"`
	TranscodeTimeout string `toml:"transcode_timeout"`
	TranscodeWorkers *int   `toml:"transcode_workers"`
	LogLevel         string `toml:"log_level"`
	LogStaticFiles   *bool  `toml:"log_static_files"`
	LogHealthChecks  *bool  `toml:"log_health_checks"`
	MetricsEnabled   *bool  `toml:"metrics_enabled"`
}

// loadFile decodes the TOML file at path onto config.
func loadFile(path string, config *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: %s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.TranscodeTimeout != "" {
		timeout, err := time.ParseDuration(fc.TranscodeTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("parse config %s: invalid transcode_timeout %q", path, fc.TranscodeTimeout)
		}
		config.TranscodeTimeout = timeout
	}
	if fc.TranscodeWorkers != nil {
		if *fc.TranscodeWorkers < 0 {
			return fmt.Errorf("parse config %s: transcode_workers must not be negative", path)
		}
		config.TranscodeWorkers = *fc.TranscodeWorkers
	}
	if fc.LogLevel != "" {
		if _, ok := logging.ParseLevel(fc.LogLevel); !ok {
			return fmt.Errorf("parse config %s: invalid log_level %q", path, fc.LogLevel)
		}
		config.LogLevel = fc.LogLevel
	}

	setString(&config.CacheDir, fc.CacheDir)
	setString(&config.ListenAddr, fc.ListenAddr)
	setString(&config.LogMember, fc.LogMember)
	setString(&config.FFmpegPath, fc.FFmpegPath)
	setString(&config.ArchivePath, fc.Archive)
	setBool(&config.LogStaticFiles, fc.LogStaticFiles)
	setBool(&config.LogHealthChecks, fc.LogHealthChecks)
	setBool(&config.MetricsEnabled, fc.MetricsEnabled)

	config.ConfigFile = path
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
