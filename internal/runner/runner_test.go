package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

type fakeStore struct {
	mu      sync.Mutex
	table   []storage.HighScore
	loadErr error
	saveErr error
	saved   []storage.HighScore
}

func (f *fakeStore) TopScores(ctx context.Context) ([]storage.HighScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]storage.HighScore(nil), f.table...), nil
}

func (f *fakeStore) SaveScore(ctx context.Context, hs storage.HighScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, hs)
	return nil
}

func (f *fakeStore) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type harness struct {
	r     *Runner
	ticks chan time.Time
	now   time.Time
}

func start(t *testing.T, opts Options) *harness {
	t.Helper()
	ticks := make(chan time.Time)
	opts.Engine = tetris.DefaultConfig()
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	opts.Ticks = ticks

	h := &harness{
		r:     New(opts),
		ticks: ticks,
		now:   time.Unix(1_700_000_000, 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("runner did not stop")
		}
	})

	// First tick only primes the clock.
	h.ticks <- h.now
	return h
}

// step sends one tick dt after the previous one.
func (h *harness) step(dt time.Duration) {
	h.now = h.now.Add(dt)
	h.ticks <- h.now
}

// sync waits until every tick sent so far has been processed.
func (h *harness) sync(t *testing.T) tetris.Snapshot {
	t.Helper()
	s, err := h.r.Send(context.Background(), tetris.CmdNone)
	require.NoError(t, err)
	return s
}

func (h *harness) send(t *testing.T, cmd tetris.Command) tetris.Snapshot {
	t.Helper()
	s, err := h.r.Send(context.Background(), cmd)
	require.NoError(t, err)
	return s
}

// topOut hard-drops until the game ends.
func (h *harness) topOut(t *testing.T) tetris.Snapshot {
	t.Helper()
	for range 200 {
		s := h.send(t, tetris.CmdHardDrop)
		if s.Over() {
			return s
		}
	}
	t.Fatal("game did not end")
	return tetris.Snapshot{}
}

func TestSendAppliesCommand(t *testing.T) {
	h := start(t, Options{})
	before := h.sync(t)

	after := h.send(t, tetris.CmdMoveLeft)
	assert.Equal(t, before.ActiveX-1, after.ActiveX)
	assert.Equal(t, after, h.r.Snapshot())
}

func TestRejectedCommandKeepsSnapshot(t *testing.T) {
	h := start(t, Options{})
	before := h.sync(t)

	// Resume is only accepted while paused.
	after := h.send(t, tetris.CmdResume)
	assert.Equal(t, before.Version, after.Version)
}

func TestTicksDriveGravity(t *testing.T) {
	h := start(t, Options{})
	before := h.sync(t)

	for range 4 {
		h.step(250 * time.Millisecond)
	}
	after := h.sync(t)
	assert.Equal(t, before.ActiveY+1, after.ActiveY)
}

func TestLongStallIsClamped(t *testing.T) {
	h := start(t, Options{})
	before := h.sync(t)

	h.step(30 * time.Second)
	after := h.sync(t)
	assert.Equal(t, before.ActiveY, after.ActiveY)
	assert.Equal(t, before.Version, after.Version)
}

func TestPauseDiscardsElapsedTime(t *testing.T) {
	h := start(t, Options{})
	before := h.sync(t)

	require.True(t, h.send(t, tetris.CmdPause).Paused)
	for range 20 {
		h.step(250 * time.Millisecond)
	}
	resumed := h.send(t, tetris.CmdResume)
	assert.False(t, resumed.Paused)
	assert.Equal(t, before.ActiveY, resumed.ActiveY)

	// The first tick after resuming only covers its own interval.
	h.step(250 * time.Millisecond)
	assert.Equal(t, before.ActiveY, h.sync(t).ActiveY)
}

func TestGameOverSavesOnce(t *testing.T) {
	store := &fakeStore{}
	h := start(t, Options{Store: store, Player: "alice"})

	over := h.topOut(t)
	require.Positive(t, over.Score)
	assert.Equal(t, 1, store.saves())

	// Nothing is accepted after game over and nothing more is saved.
	h.send(t, tetris.CmdHardDrop)
	h.step(250 * time.Millisecond)
	h.sync(t)
	assert.Equal(t, 1, store.saves())

	saved := store.saved[0]
	assert.Equal(t, "alice", saved.Player)
	assert.Equal(t, over.Score, saved.Score)
	assert.Equal(t, over.Level, saved.Level)
	assert.Equal(t, over.Lines, saved.Lines)
	assert.NotEmpty(t, saved.ID)

	require.Len(t, h.r.HighScores(), 1)
	assert.Equal(t, over.Score, h.r.Best())
	assert.True(t, h.r.NewBest())
}

func TestZeroScoreGameIsSaved(t *testing.T) {
	store := &fakeStore{}
	h := start(t, Options{Store: store})

	// Gravity alone stacks pieces in the middle columns: no rows clear
	// and no drop points are earned.
	var over tetris.Snapshot
	for range 20000 {
		h.step(250 * time.Millisecond)
		if over = h.sync(t); over.Over() {
			break
		}
	}
	require.True(t, over.Over())
	require.Zero(t, over.Score)

	assert.Equal(t, 1, store.saves())
	assert.Zero(t, store.saved[0].Score)
	assert.False(t, h.r.NewBest())
	require.Len(t, h.r.HighScores(), 1)
}

func TestRestartStartsFreshGame(t *testing.T) {
	store := &fakeStore{}
	h := start(t, Options{Store: store})

	h.topOut(t)
	s, err := h.r.Restart(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, tetris.StateFalling, s.State)
	assert.Equal(t, int64(99), s.Seed)
	assert.Zero(t, s.Score)
	assert.False(t, h.r.NewBest())

	h.topOut(t)
	assert.Equal(t, 2, store.saves())
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	h := start(t, Options{Store: store})

	h.topOut(t)
	assert.Empty(t, h.r.HighScores())

	s, err := h.r.Restart(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, s.Over())
}

func TestLoadsHighScores(t *testing.T) {
	store := &fakeStore{table: []storage.HighScore{
		{ID: "a", Score: 300},
		{ID: "b", Score: 900},
	}}
	h := start(t, Options{Store: store})
	h.sync(t)

	table := h.r.HighScores()
	require.Len(t, table, 2)
	assert.Equal(t, 900, table[0].Score)
	assert.Equal(t, 900, h.r.Best())
}

func TestCorruptTableStartsEmpty(t *testing.T) {
	store := &fakeStore{loadErr: fmt.Errorf("read scores: %w", storage.ErrCorrupt)}
	h := start(t, Options{Store: store})

	s := h.sync(t)
	assert.Empty(t, h.r.HighScores())
	assert.Zero(t, h.r.Best())
	assert.Equal(t, tetris.StateFalling, s.State)
}

func TestSubscribeKeepsLatest(t *testing.T) {
	h := start(t, Options{})
	initial := h.sync(t)

	ch, cancel := h.r.Subscribe()
	defer cancel()

	h.send(t, tetris.CmdMoveLeft)
	h.send(t, tetris.CmdMoveLeft)

	select {
	case s := <-ch:
		assert.Equal(t, initial.ActiveX-2, s.ActiveX)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	select {
	case s := <-ch:
		t.Fatalf("unexpected extra snapshot: version %d", s.Version)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := start(t, Options{})
	ch, cancel := h.r.Subscribe()
	<-ch

	cancel()
	cancel()
	h.send(t, tetris.CmdMoveLeft)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestStoppedRunner(t *testing.T) {
	r := New(Options{Engine: tetris.DefaultConfig(), Seed: 1, Ticks: make(chan time.Time)})
	ch, _ := r.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
	<-r.Done()

	_, err := r.Send(context.Background(), tetris.CmdMoveLeft)
	assert.ErrorIs(t, err, ErrStopped)
	_, err = r.Restart(context.Background(), 2)
	assert.ErrorIs(t, err, ErrStopped)

	<-ch // initial snapshot
	_, ok := <-ch
	assert.False(t, ok)

	late, _ := r.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
