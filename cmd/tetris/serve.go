package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-tetris/internal/platform/stream"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
	flagServeLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tetris SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game; the SSH user name is recorded with
the score. All users share the same high-score table.

With --ws, every running game can also be watched over HTTP:
  GET /games            live games
  GET /games/{id}       latest snapshot as JSON
  GET /games/{id}/ws    WebSocket stream of snapshots
  GET /scores           high-score table

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tetris/host_key

Examples:
  tetris serve                           # Listen on :23234 with auto-generated key
  tetris serve --ssh :2222               # Listen on port 2222
  tetris serve --ws :8088                # Also serve spectators
  tetris serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Spectator HTTP/WebSocket address (disabled if empty)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeLevel, "difficulty", "", "Difficulty preset for every session")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(flagServeLevel)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, "tetris-ssh")
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.Engine = cfg.Engine()
	sshCfg.TickRate = cfg.Runtime.TickRate
	sshCfg.Store = store
	sshCfg.Logger = logger

	var hub *stream.Hub
	if flagWSAddr != "" {
		hub = stream.NewHub(store, logger.WithPrefix("tetris-ws"))
		sshCfg.Hub = hub
	}

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting tetris SSH server on %s\n", sshCfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.ListenAndServe(ctx) })
	if hub != nil {
		fmt.Printf("Spectators: http://localhost%s/games\n", flagWSAddr)
		g.Go(func() error { return hub.ListenAndServe(ctx, flagWSAddr) })
	}
	return g.Wait()
}
