// Package config provides YAML-based engine configuration loading and
// difficulty presets for tetris.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// TetrisConfig contains all configuration for a game session.
type TetrisConfig struct {
	Gravity GravityConfig `yaml:"gravity"`
	Lock    LockConfig    `yaml:"lock"`
	Preview int           `yaml:"preview"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Storage StorageConfig `yaml:"storage"`
}

// GravityConfig defines how fast pieces fall.
type GravityConfig struct {
	BaseInterval  time.Duration `yaml:"base_interval"`
	FloorInterval time.Duration `yaml:"floor_interval"`
	LevelDelta    time.Duration `yaml:"level_delta"`
}

// LockConfig defines lock-delay behaviour.
type LockConfig struct {
	Delay     time.Duration `yaml:"delay"`
	MaxResets int           `yaml:"max_resets"` // 0 = unlimited
}

// RuntimeConfig defines driver loop parameters.
type RuntimeConfig struct {
	TickRate int `yaml:"tick_rate"`
}

// StorageConfig selects the high-score backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "json"
	Path    string `yaml:"path"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Engine converts the config into engine timing.
func (c TetrisConfig) Engine() tetris.Config {
	return tetris.Config{
		Gravity: tetris.GravityConfig{
			BaseInterval:  c.Gravity.BaseInterval,
			FloorInterval: c.Gravity.FloorInterval,
			LevelDelta:    c.Gravity.LevelDelta,
		},
		LockDelay:     c.Lock.Delay,
		MaxLockResets: c.Lock.MaxResets,
		Preview:       c.Preview,
	}
}

// RuntimeConfig returns the front-end parameters for a session rendering
// into a width x height terminal.
func (c TetrisConfig) RuntimeConfig(width, height int, seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: c.Runtime.TickRate,
		Seed:     seed,
	}
}

// Validate rejects unusable values and clamps the ones that have an
// obvious nearest legal value.
func (c *TetrisConfig) Validate() error {
	var errs []error
	if c.Gravity.BaseInterval <= 0 {
		errs = append(errs, fmt.Errorf("gravity.base_interval must be positive, got %s", c.Gravity.BaseInterval))
	}
	if c.Gravity.FloorInterval <= 0 {
		errs = append(errs, fmt.Errorf("gravity.floor_interval must be positive, got %s", c.Gravity.FloorInterval))
	}
	if c.Gravity.LevelDelta < 0 {
		errs = append(errs, fmt.Errorf("gravity.level_delta must not be negative, got %s", c.Gravity.LevelDelta))
	}
	if c.Lock.Delay <= 0 {
		errs = append(errs, fmt.Errorf("lock.delay must be positive, got %s", c.Lock.Delay))
	}
	if c.Lock.MaxResets < 0 {
		errs = append(errs, fmt.Errorf("lock.max_resets must not be negative, got %d", c.Lock.MaxResets))
	}
	if c.Runtime.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("runtime.tick_rate must be positive, got %d", c.Runtime.TickRate))
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendJSON:
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendJSON, c.Storage.Backend))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Preview < tetris.MinPreview {
		c.Preview = tetris.MinPreview
	}
	if c.Gravity.FloorInterval > c.Gravity.BaseInterval {
		c.Gravity.FloorInterval = c.Gravity.BaseInterval
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gravity.BaseInterval = 1200 * time.Millisecond
		cfg.Gravity.LevelDelta = 60 * time.Millisecond
		cfg.Lock.Delay = 750 * time.Millisecond
		cfg.Lock.MaxResets = 0
	case DifficultyHard:
		cfg.Gravity.BaseInterval = 600 * time.Millisecond
		cfg.Gravity.LevelDelta = 100 * time.Millisecond
		cfg.Lock.Delay = 300 * time.Millisecond
		cfg.Lock.MaxResets = 15
	case DifficultyFixed:
		// no speed-up with level
		cfg.Gravity.LevelDelta = 0
	}
}
