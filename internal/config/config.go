// Package config resolves brainrush settings from defaults, a TOML file
// and BRAINRUSH_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the resolved configuration.
type Config struct {
	// ServerURL is the leaderboard backend. Empty plays offline.
	ServerURL     string
	Timeout       time.Duration
	RetryAttempts int
	Headers       map[string]string

	DBPath   string
	GamesDir string

	LogLevel string
	LogFile  string

	// Seed fixes question generation. Zero picks a random seed per
	// session.
	Seed        uint64
	DefaultGame string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:       10 * time.Second,
		RetryAttempts: 2,
		Headers:       map[string]string{},
		DBPath:        DefaultDBPath(),
		GamesDir:      DefaultGamesDir(),
		LogLevel:      "info",
		LogFile:       DefaultLogPath(),
		DefaultGame:   "sprint",
	}
}

// Offline reports whether no backend is configured.
func (c Config) Offline() bool { return c.ServerURL == "" }

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server  ServerConfig  `toml:"server"`
	Game    GameConfig    `toml:"game"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig maps backend settings.
type ServerConfig struct {
	URL     *string           `toml:"url"`
	Timeout *string           `toml:"timeout"`
	Retries *int              `toml:"retries"`
	Headers map[string]string `toml:"headers"`
}

// GameConfig maps gameplay settings.
type GameConfig struct {
	Default  *string `toml:"default"`
	Seed     *int64  `toml:"seed"`
	GamesDir *string `toml:"games-dir"`
}

// StorageConfig maps local history settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadFile reads a TOML config from the given path. Missing file is not
// an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fc, nil
}

// Load resolves the configuration from defaults, the file at path and
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(fc); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(fc FileConfig) error {
	if fc.Server.URL != nil {
		c.ServerURL = strings.TrimRight(*fc.Server.URL, "/")
	}
	if fc.Server.Timeout != nil {
		d, err := time.ParseDuration(*fc.Server.Timeout)
		if err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
		c.Timeout = d
	}
	if fc.Server.Retries != nil {
		c.RetryAttempts = *fc.Server.Retries
	}
	for k, v := range fc.Server.Headers {
		c.Headers[k] = v
	}
	if fc.Game.Default != nil {
		c.DefaultGame = *fc.Game.Default
	}
	if fc.Game.Seed != nil {
		if *fc.Game.Seed < 0 {
			return fmt.Errorf("game.seed: must not be negative")
		}
		c.Seed = uint64(*fc.Game.Seed)
	}
	if fc.Game.GamesDir != nil {
		c.GamesDir = *fc.Game.GamesDir
	}
	if fc.Storage.DB != nil {
		c.DBPath = *fc.Storage.DB
	}
	if fc.Log.Level != nil {
		c.LogLevel = *fc.Log.Level
	}
	if fc.Log.File != nil {
		c.LogFile = *fc.Log.File
	}
	return nil
}

func (c *Config) applyEnv() error {
	if u := os.Getenv("BRAINRUSH_SERVER_URL"); u != "" {
		c.ServerURL = strings.TrimRight(u, "/")
	}
	if t := os.Getenv("BRAINRUSH_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("BRAINRUSH_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if r := os.Getenv("BRAINRUSH_RETRIES"); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil {
			return fmt.Errorf("BRAINRUSH_RETRIES: %w", err)
		}
		c.RetryAttempts = n
	}
	if tok := os.Getenv("BRAINRUSH_TOKEN"); tok != "" {
		c.Headers["Authorization"] = "Bearer " + tok
	}
	if s := os.Getenv("BRAINRUSH_SEED"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("BRAINRUSH_SEED: %w", err)
		}
		c.Seed = n
	}
	if g := os.Getenv("BRAINRUSH_GAME"); g != "" {
		c.DefaultGame = g
	}
	if d := os.Getenv("BRAINRUSH_GAMES_DIR"); d != "" {
		c.GamesDir = d
	}
	if p := os.Getenv("BRAINRUSH_DB"); p != "" {
		c.DBPath = p
	}
	if l := os.Getenv("BRAINRUSH_LOG_LEVEL"); l != "" {
		c.LogLevel = l
	}
	if f := os.Getenv("BRAINRUSH_LOG_FILE"); f != "" {
		c.LogFile = f
	}
	return nil
}
