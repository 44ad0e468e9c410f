// tetris is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	tetris play              - Play a game locally
//	tetris scores            - Show the high-score table
//	tetris serve             - Start the SSH server (and spectator feed)
//	tetris sim --script f    - Run a command script headlessly
//
// Global flags:
//
//	--config <path>     - Config YAML (default: search ~/.tetris/configs, ./configs)
//	--db <path>         - Score store path (default from config)
//	--seed <value>      - RNG seed for reproducible gameplay
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris in your terminal",
	Long: `A falling-block puzzle game for the terminal, playable locally or over SSH.

Available commands:
  play     - Play a game locally
  scores   - View high scores
  serve    - Start SSH server for remote play
  sim      - Run a command script headlessly

Examples:
  tetris play
  tetris play --difficulty hard
  tetris serve --ssh :2222 --ws :8088
  tetris scores --plain
  tetris sim --script demo.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return config.LoadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to score store (overrides config and TETRIS_DB)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
}

// loadConfig resolves the configuration: file, then environment, then
// flags, then the difficulty preset.
func loadConfig(difficulty string) (config.TetrisConfig, error) {
	path := flagConfig
	if path == "" {
		path = config.ConfigPathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg)
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}

	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	return cfg, cfg.Validate()
}

// newLogger builds the application logger writing to w.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openLogFile opens ~/.tetris/tetris.log for appending. The TUI owns the
// terminal, so interactive sessions log there instead of stderr.
func openLogFile() (io.WriteCloser, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".tetris")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "tetris.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// openStore opens the configured score store. A failure is logged and the
// game continues without persistence.
func openStore(cfg config.TetrisConfig, logger *log.Logger) storage.Store {
	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open score store", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}
