// Package storage persists high scores. Two backends are provided: a
// SQLite database (pure-Go modernc.org/sqlite driver, no CGO) and a
// single JSON file. Both expose the top ten results ordered by score.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxHighScores is the length of the high-score table.
const MaxHighScores = 10

// ErrCorrupt is returned when a score file exists but cannot be decoded.
// Callers treat it as an empty table.
var ErrCorrupt = errors.New("storage: corrupt score data")

// HighScore is the record written when a game ends.
type HighScore struct {
	ID        string    `json:"id"`
	Player    string    `json:"player,omitempty"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHighScore builds a record with a fresh ID, stamped now.
func NewHighScore(player string, score, level, lines int) HighScore {
	return HighScore{
		ID:        uuid.NewString(),
		Player:    player,
		Score:     score,
		Level:     level,
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is a high-score backend.
type Store interface {
	// TopScores returns at most MaxHighScores records, best first.
	TopScores(ctx context.Context) ([]HighScore, error)
	// SaveScore records a finished game.
	SaveScore(ctx context.Context, hs HighScore) error
	Close() error
}

// Open opens the backend named by kind ("sqlite" or "json") at path.
func Open(kind, path string) (Store, error) {
	switch kind {
	case "", "sqlite":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "json":
		s, err := OpenJSON(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", kind)
	}
}

// Rank sorts scores best first and caps the list at MaxHighScores.
// Equal scores keep the most recent first.
func Rank(scores []HighScore) []HighScore {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score == scores[j].Score {
			return scores[i].CreatedAt.After(scores[j].CreatedAt)
		}
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > MaxHighScores {
		scores = scores[:MaxHighScores]
	}
	return scores
}

// IsNewBest reports whether score beats every entry of table.
// An empty table makes any positive score a new best.
func IsNewBest(table []HighScore, score int) bool {
	if score <= 0 {
		return false
	}
	for _, hs := range table {
		if hs.Score >= score {
			return false
		}
	}
	return true
}

// Qualifies reports whether score would enter a table of MaxHighScores.
func Qualifies(table []HighScore, score int) bool {
	if score <= 0 {
		return false
	}
	if len(table) < MaxHighScores {
		return true
	}
	return score > table[len(table)-1].Score
}

// expandPath resolves a leading ~ and creates the parent directory.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("storage: empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return path, nil
}
