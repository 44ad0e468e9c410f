package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/stream"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/runner"
)

var (
	flagDifficulty string
	flagPlayer     string
	flagWatchAddr  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game in the terminal.

Controls:
  Left/Right, A/D   - Move
  Up, X             - Rotate clockwise
  Z                 - Rotate counter-clockwise
  Down, S           - Soft drop
  Space             - Hard drop
  C                 - Hold
  P/Esc             - Pause
  R/Enter           - Restart (after game over)
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower gravity, longer lock delay
  normal - Values from the config file
  hard   - Faster gravity, short lock delay, 15 lock resets per piece
  fixed  - No speed-up with level

Examples:
  tetris play
  tetris play --difficulty easy
  tetris play --seed 42
  tetris play --watch :8088`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name recorded with high scores (default: current user)")
	playCmd.Flags().StringVar(&flagWatchAddr, "watch", "", "Also serve the game to spectators on this address")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(flagDifficulty)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "tetris")
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rt := cfg.RuntimeConfig(width, height, flagSeed)

	player := flagPlayer
	if player == "" {
		if u, err := user.Current(); err == nil {
			player = u.Username
		}
	}

	r := runner.New(runner.Options{
		Engine:       cfg.Engine(),
		Seed:         rt.Seed,
		TickInterval: rt.TickInterval(),
		Store:        store,
		Player:       player,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagWatchAddr != "" {
		hub := stream.NewHub(store, logger)
		_, detach := hub.Attach(player, r)
		defer detach()
		go func() {
			if err := hub.ListenAndServe(ctx, flagWatchAddr); err != nil {
				logger.Error("spectator server failed", "error", err)
			}
		}()
	}

	if err := tui.Run(ctx, r, player, rt); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
