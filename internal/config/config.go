package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/tunedeck/internal/playback"
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library
	IndexPath      string   `koanf:"index_path"`      // media index database, empty means XDG data dir
	WatchSources   bool     `koanf:"watch_sources"`   // rescan when files change under a source

	Playback      PlaybackConfig      `koanf:"playback"`
	Notifications NotificationsConfig `koanf:"notifications"`
	MPRIS         MPRISConfig         `koanf:"mpris"`
	Log           LogConfig           `koanf:"log"`
}

// PlaybackConfig holds playback session settings.
type PlaybackConfig struct {
	OnPrepareError  string `koanf:"on_prepare_error"`  // "skip" or "stop" (default: "skip")
	SeekStepSeconds int    `koanf:"seek_step_seconds"` // arrow key seek step (default: 5)
}

// NotificationsConfig controls the now-playing desktop notification.
type NotificationsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// MPRISConfig controls the D-Bus media player interface.
type MPRISConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // empty means XDG state dir
}

const defaultSeekStep = 5

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		WatchSources:  true,
		Playback:      PlaybackConfig{OnPrepareError: "skip", SeekStepSeconds: defaultSeekStep},
		Notifications: NotificationsConfig{Enabled: true},
		MPRIS:         MPRISConfig{Enabled: true},
		Log:           LogConfig{Level: "info"},
	}
}

func Load() (*Config, error) {
	return loadFiles(getConfigPaths())
}

func loadFiles(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}
	cfg.IndexPath = expandPath(cfg.IndexPath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if cfg.Playback.SeekStepSeconds <= 0 {
		cfg.Playback.SeekStepSeconds = defaultSeekStep
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tunedeck/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tunedeck", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLibrarySources returns true if at least one library folder is configured.
func (c *Config) HasLibrarySources() bool {
	return len(c.LibrarySources) > 0
}

// PreparePolicy returns the session policy for tracks that fail to load.
func (c *Config) PreparePolicy() (playback.Policy, error) {
	return playback.ParsePolicy(c.Playback.OnPrepareError)
}

// SeekStep returns the seek step as a duration.
func (c *Config) SeekStep() time.Duration {
	if c.Playback.SeekStepSeconds <= 0 {
		return defaultSeekStep * time.Second
	}
	return time.Duration(c.Playback.SeekStepSeconds) * time.Second
}
