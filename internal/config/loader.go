package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvConfigPath = "TETRIS_CONFIG"
	EnvDBPath     = "TETRIS_DB"
	EnvBackend    = "TETRIS_STORAGE"
)

const configFile = "tetris.yaml"

// Load loads the tetris configuration.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default.
// Missing keys keep their default values. Only an explicit customPath can
// produce an error; every other source falls through silently.
func Load(customPath string) (TetrisConfig, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := parse(data); ok {
				return parsed, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if parsed, ok := parse(data); ok {
			return parsed, nil
		}
	}

	if parsed, ok := parse(defaultTetrisYAML); ok {
		return parsed, nil
	}
	return Default(), nil
}

// parse decodes data over the hardcoded defaults.
func parse(data []byte) (TetrisConfig, bool) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TetrisConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Variables that are already set
// win. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigPathFromEnv returns the config path named by TETRIS_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv(EnvConfigPath)
}

// ApplyEnv overrides storage settings from TETRIS_DB and TETRIS_STORAGE.
func ApplyEnv(cfg *TetrisConfig) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
}
