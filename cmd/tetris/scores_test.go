package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func TestOpenScoreTableCorruptSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("garbage!"), 256), 0o644))

	var warn bytes.Buffer
	store, scores, err := openScoreTable(context.Background(), "sqlite", path, &warn)
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Empty(t, scores)
	assert.Contains(t, warn.String(), "corrupt")
}

func TestOpenScoreTableCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad"), 0o644))

	var warn bytes.Buffer
	store, scores, err := openScoreTable(context.Background(), "json", path, &warn)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()
	assert.Empty(t, scores)
	assert.Contains(t, warn.String(), "corrupt")
}

func TestOpenScoreTableReadsScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveScore(context.Background(), storage.NewHighScore("ann", 400, 2, 12)))
	require.NoError(t, db.Close())

	var warn bytes.Buffer
	store, scores, err := openScoreTable(context.Background(), "sqlite", path, &warn)
	require.NoError(t, err)
	defer store.Close()
	require.Len(t, scores, 1)
	assert.Equal(t, "ann", scores[0].Player)
	assert.Empty(t, warn.String())
}
