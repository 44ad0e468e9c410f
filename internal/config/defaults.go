package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// Default returns the hardcoded configuration. It matches the embedded
// defaults/tetris.yaml and is the last fallback if that fails to parse.
func Default() TetrisConfig {
	return TetrisConfig{
		Gravity: GravityConfig{
			BaseInterval:  1000 * time.Millisecond,
			FloorInterval: 50 * time.Millisecond,
			LevelDelta:    80 * time.Millisecond,
		},
		Lock: LockConfig{
			Delay:     500 * time.Millisecond,
			MaxResets: 0,
		},
		Preview: 3,
		Runtime: RuntimeConfig{
			TickRate: 60,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "~/.tetris/scores.db",
		},
	}
}
