// Package config holds the per-batch run parameters: defaults, an optional
// YAML config file, and SP_* environment overrides. Invalid or missing
// overrides fall back silently to the documented defaults, never to zero.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Env wins over the config file, which wins
// over defaults.
const (
	EnvConfigFile      = "SP_CONFIG"
	EnvEndcardPath     = "SP_ENDCARD_PATH"
	EnvMaxVideoMB      = "SP_MAX_VIDEO_MB"
	EnvMaxWorkers      = "SP_MAX_WORKERS"
	EnvTaskTimeoutSec  = "SP_TASK_TIMEOUT_SEC"
	EnvDownloadRetries = "SP_DOWNLOAD_RETRIES"
)

// Config holds all run parameters. Loaded once per batch invocation and
// read-only thereafter; every worker shares it without locking.
type Config struct {
	// EndcardPath is the fixed clip appended to every output.
	EndcardPath string `yaml:"endcard_path"`
	// MaxVideoMB caps each downloaded source video. Default: 50.
	MaxVideoMB int `yaml:"max_video_mb"`
	// MaxWorkers bounds concurrent row processing. Default: 6.
	MaxWorkers int `yaml:"max_workers"`
	// TaskTimeoutSec is the per-row wall-clock budget, counted from
	// dispatch. Default: 180.
	TaskTimeoutSec int `yaml:"task_timeout_sec"`
	// DownloadRetries is the number of re-attempts after a failed
	// download. Default: 2.
	DownloadRetries int `yaml:"download_retries"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		EndcardPath:     "assets/video/endcard.mp4",
		MaxVideoMB:      50,
		MaxWorkers:      6,
		TaskTimeoutSec:  180,
		DownloadRetries: 2,
	}
}

// Load builds the effective config: defaults, then the YAML file at path
// (or $SP_CONFIG) when one exists, then env overrides. A file named
// explicitly by the caller must exist; only the $SP_CONFIG-defaulted path
// may be silently absent. An unreadable or malformed file is always an
// error, since a requested config that cannot be honored should not
// degrade silently.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			if explicit || !os.IsNotExist(err) {
				return cfg, err
			}
		}
	}

	cfg.applyEnv()
	cfg.sanitize()
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return yaml.NewDecoder(f).Decode(cfg)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndcardPath); v != "" {
		c.EndcardPath = v
	}
	c.MaxVideoMB = readPositiveInt(EnvMaxVideoMB, c.MaxVideoMB)
	c.MaxWorkers = readPositiveInt(EnvMaxWorkers, c.MaxWorkers)
	c.TaskTimeoutSec = readPositiveInt(EnvTaskTimeoutSec, c.TaskTimeoutSec)
	c.DownloadRetries = readPositiveInt(EnvDownloadRetries, c.DownloadRetries)
}

// sanitize restores defaults for non-positive numerics, wherever they came
// from. The invariant is that every numeric field is positive.
func (c *Config) sanitize() {
	def := Default()
	if c.MaxVideoMB <= 0 {
		c.MaxVideoMB = def.MaxVideoMB
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = def.MaxWorkers
	}
	if c.TaskTimeoutSec <= 0 {
		c.TaskTimeoutSec = def.TaskTimeoutSec
	}
	if c.DownloadRetries <= 0 {
		c.DownloadRetries = def.DownloadRetries
	}
}

// MaxBytes returns the download size cap in bytes.
func (c Config) MaxBytes() int64 {
	return int64(c.MaxVideoMB) * 1024 * 1024
}

// TaskTimeout returns the per-row budget as a duration.
func (c Config) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutSec) * time.Second
}

// readPositiveInt reads an int env var, falling back to def when the
// variable is unset, unparseable, or non-positive.
func readPositiveInt(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
