// Package config loads bgrules settings from an optional YAML file and
// BGRULES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/bgrules/pkg/engine"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full tool configuration.
type Config struct {
	Log  LogConfig  `yaml:"log"`
	Game GameConfig `yaml:"game"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
	Caller bool   `yaml:"caller"`
}

// GameConfig configures the players and the position to load.
type GameConfig struct {
	WhiteDirection engine.Direction `yaml:"white_direction"`
	PositionFile   string           `yaml:"position_file"` // Empty = starting position
	HistoryLimit   int              `yaml:"history_limit"` // Snapshots kept per turn, 0 = unlimited
	CacheSize      int              `yaml:"cache_size"`    // Lookahead cache entries, 0 = default
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Game: GameConfig{
			WhiteDirection: engine.Clockwise,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then with environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("BGRULES_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_LOG_FORMAT")); v != "" {
		c.Log.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_LOG_CALLER")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: BGRULES_LOG_CALLER=%q", ErrInvalidConfig, v)
		}
		c.Log.Caller = b
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_WHITE_DIRECTION")); v != "" {
		if err := c.Game.WhiteDirection.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%w: BGRULES_WHITE_DIRECTION: %v", ErrInvalidConfig, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_POSITION_FILE")); v != "" {
		c.Game.PositionFile = v
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_HISTORY_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BGRULES_HISTORY_LIMIT=%q", ErrInvalidConfig, v)
		}
		c.Game.HistoryLimit = n
	}
	if v := strings.TrimSpace(os.Getenv("BGRULES_CACHE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BGRULES_CACHE_SIZE=%q", ErrInvalidConfig, v)
		}
		c.Game.CacheSize = n
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	if !c.Game.WhiteDirection.Valid() {
		return fmt.Errorf("%w: white direction not set", ErrInvalidConfig)
	}
	if c.Game.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit %d", ErrInvalidConfig, c.Game.HistoryLimit)
	}
	if c.Game.CacheSize < 0 {
		return fmt.Errorf("%w: cache size %d", ErrInvalidConfig, c.Game.CacheSize)
	}
	return nil
}

// Players returns white and black with the configured directions.
func (c *Config) Players() (engine.Player, engine.Player) {
	white := engine.Player{Color: engine.White, Direction: c.Game.WhiteDirection}
	return white, engine.Opponent(white)
}
