package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JSONStore keeps the high-score table in a single JSON file holding at
// most MaxHighScores entries.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// OpenJSON returns a store backed by the file at path. The file is created
// on the first save.
func OpenJSON(path string) (*JSONStore, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &JSONStore{path: path}, nil
}

// Path returns the resolved file path.
func (s *JSONStore) Path() string {
	return s.path
}

// TopScores reads the table. An absent file is an empty table; an
// undecodable one returns an empty table and ErrCorrupt.
func (s *JSONStore) TopScores(ctx context.Context) ([]HighScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// SaveScore inserts hs into the table and rewrites the file. A corrupt
// file is replaced by a table holding only hs.
func (s *JSONStore) SaveScore(ctx context.Context, hs HighScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if hs.ID == "" {
		hs.ID = uuid.NewString()
	}
	if hs.CreatedAt.IsZero() {
		hs.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	return s.write(Rank(append(table, hs)))
}

// Close is a no-op; the file is not held open.
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) read() ([]HighScore, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []HighScore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", s.path, err)
	}

	var table []HighScore
	if err := json.Unmarshal(data, &table); err != nil {
		return []HighScore{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return Rank(table), nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *JSONStore) write(table []HighScore) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: cannot encode scores: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".scores-*.json")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot write scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", s.path, err)
	}
	return nil
}
