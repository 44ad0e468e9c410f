package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagPlain bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score table",
	Long: `Display the top 10 high scores.

On a terminal the table is interactive; with --plain or when output is
redirected it is printed once.

Examples:
  tetris scores
  tetris scores --plain
  tetris scores --db ./scores.json
  tetris scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the table instead of opening the viewer")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded games (SQLite only)")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if flagClear {
		return clearScores(ctx, cfg.Storage.Backend, cfg.Storage.Path)
	}

	store, scores, err := openScoreTable(ctx, cfg.Storage.Backend, cfg.Storage.Path, os.Stderr)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height, sizeErr := term.GetSize(fd)
		if sizeErr != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(scores, width, height)
	}

	printScores(scores)
	if db, ok := store.(*storage.SQLiteStore); ok {
		if sum, err := db.Summary(ctx); err == nil && sum.GamesCount > 0 {
			fmt.Printf("\n%d games played, %d lines cleared, average score %.0f\n",
				sum.GamesCount, sum.TotalLines, sum.AvgScore)
		}
	}
	return nil
}

// openScoreTable opens the store and reads the table. A corrupt store is
// reported on warn and shows as an empty table with a nil store.
func openScoreTable(ctx context.Context, backend, path string, warn io.Writer) (storage.Store, []storage.HighScore, error) {
	store, err := storage.Open(backend, path)
	if errors.Is(err, storage.ErrCorrupt) {
		fmt.Fprintln(warn, "Warning: score store is corrupt, showing an empty table")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening score store: %w", err)
	}

	scores, err := store.TopScores(ctx)
	if errors.Is(err, storage.ErrCorrupt) {
		fmt.Fprintln(warn, "Warning: score file is corrupt, showing an empty table")
		return store, nil, nil
	}
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("retrieving scores: %w", err)
	}
	return store, scores, nil
}

func clearScores(ctx context.Context, backend, path string) error {
	store, err := storage.Open(backend, path)
	if err != nil {
		return fmt.Errorf("opening score store: %w", err)
	}
	defer store.Close()

	db, ok := store.(*storage.SQLiteStore)
	if !ok {
		return fmt.Errorf("--clear is only supported by the sqlite backend")
	}
	if err := db.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("All scores cleared.")
	return nil
}

func printScores(scores []storage.HighScore) {
	fmt.Println("High Scores")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' to set the first high score!")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(tui.ScoreColumns...).
		Rows(tui.ScoreRows(scores)...)
	fmt.Println(t.Render())
	fmt.Printf("\nBest: %d\n", scores[0].Score)
}
