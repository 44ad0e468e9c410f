package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

const sample = `
seed: 42
player: bot
difficulty: hard
steps:
  - cmd: left
    repeat: 3
  - wait: 1500ms
  - cmd: cw
  - cmd: hard
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, "bot", s.Player)
	assert.Equal(t, "hard", s.Difficulty)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, Step{Cmd: "left", Repeat: 3}, s.Steps[0])
	assert.Equal(t, 1500*time.Millisecond, s.Steps[1].Wait)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown command", "steps:\n  - cmd: jump\n", "step 1"},
		{"cmd and wait", "steps:\n  - cmd: left\n    wait: 1s\n", "exclusive"},
		{"empty step", "steps:\n  - repeat: 2\n", "empty step"},
		{"negative repeat", "steps:\n  - cmd: left\n    repeat: -1\n", "negative repeat"},
		{"bad difficulty", "difficulty: insane\n", "unknown difficulty"},
		{"bad yaml", "steps: [", "invalid yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunIsDeterministic(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	a := s.Run(tetris.New(tetris.DefaultConfig(), s.Seed))
	b := s.Run(tetris.New(tetris.DefaultConfig(), s.Seed))
	assert.Equal(t, a, b)
	assert.Equal(t, 1500*time.Millisecond, a.Elapsed)
	assert.Equal(t, 1, a.Final.Pieces)
}

func TestRunWaitAppliesGravity(t *testing.T) {
	g := tetris.New(tetris.DefaultConfig(), 1)
	start := g.Snapshot().ActiveY

	res := Script{Steps: []Step{{Wait: time.Second}}}.Run(g)
	assert.Equal(t, start+1, res.Final.ActiveY)
	assert.Zero(t, res.Applied)
}

func TestRunStopsAtGameOver(t *testing.T) {
	g := tetris.New(tetris.DefaultConfig(), 1)
	res := Script{Steps: []Step{
		{Cmd: "hard", Repeat: 500},
		{Cmd: "left"},
	}}.Run(g)

	assert.True(t, res.Final.Over())
	assert.Less(t, res.Applied, 500)
	assert.Zero(t, res.Rejected)
}

func TestRunCountsRejected(t *testing.T) {
	g := tetris.New(tetris.DefaultConfig(), 1)
	res := Script{Steps: []Step{{Cmd: "left", Repeat: 20}}}.Run(g)

	assert.Equal(t, 20, res.Applied+res.Rejected)
	assert.Positive(t, res.Rejected)
	assert.Equal(t, 0, minX(res.Final))
}

func minX(s tetris.Snapshot) int {
	p, _ := s.Active()
	m := tetris.Width
	for _, c := range p.Cells() {
		m = min(m, c.X)
	}
	return m
}
