package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite" // Pure Go SQLite driver
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore keeps every finished game in a SQLite database and serves
// the top of that history as the high-score table.
type SQLiteStore struct {
	db *sql.DB
}

// Summary aggregates the whole game history.
type Summary struct {
	GamesCount int
	Best       int
	AvgScore   float64
	TotalLines int64
	LastPlayed time.Time
}

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// A file that is not a usable database yields an error wrapping ErrCorrupt.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions share one store; serialize writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", corrupt(err))
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", corrupt(err))
	}
	return store, nil
}

// corrupt tags driver errors for damaged or foreign files with ErrCorrupt.
func corrupt(err error) error {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return err
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_top ON games(score DESC, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game. A missing ID or timestamp is filled in.
func (s *SQLiteStore) SaveScore(ctx context.Context, hs HighScore) error {
	if hs.ID == "" {
		hs.ID = uuid.NewString()
	}
	if hs.CreatedAt.IsZero() {
		hs.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, player, score, level, lines, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		hs.ID, hs.Player, hs.Score, hs.Level, hs.Lines, hs.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores returns the best MaxHighScores games, best first.
func (s *SQLiteStore) TopScores(ctx context.Context) ([]HighScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, level, lines, created_at
		 FROM games
		 ORDER BY score DESC, created_at DESC
		 LIMIT ?`,
		MaxHighScores,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	entries := make([]HighScore, 0, MaxHighScores)
	for rows.Next() {
		var hs HighScore
		var createdAt int64
		if err := rows.Scan(&hs.ID, &hs.Player, &hs.Score, &hs.Level, &hs.Lines, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		hs.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, hs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Summary returns aggregate statistics over every recorded game.
func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(lines), 0), MAX(created_at)
		 FROM games`,
	).Scan(&sum.GamesCount, &sum.Best, &sum.AvgScore, &sum.TotalLines, &last)
	if err != nil {
		return Summary{}, fmt.Errorf("storage: cannot get summary: %w", err)
	}
	if last.Valid {
		sum.LastPlayed = time.UnixMilli(last.Int64).UTC()
	}
	return sum, nil
}

// Clear removes all recorded games.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM games"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
