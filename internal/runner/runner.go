// Package runner drives a single tetris game. One goroutine owns the
// engine and serializes clock ticks and player commands into a single
// ordered stream; everything else talks to it through channels and reads
// published snapshots.
package runner

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// ErrStopped is returned by Send and Restart once Run has returned.
var ErrStopped = errors.New("runner: stopped")

// maxFrame caps the time fed to the engine for one tick so a stalled
// process does not fast-forward the game when it wakes up.
const maxFrame = 250 * time.Millisecond

// ScoreStore is the persistence port: read once at start, written once
// per finished game.
type ScoreStore interface {
	TopScores(ctx context.Context) ([]storage.HighScore, error)
	SaveScore(ctx context.Context, hs storage.HighScore) error
}

// Options configures a Runner.
type Options struct {
	Engine tetris.Config
	Seed   int64 // 0 picks one from the clock

	// TickInterval is the driver loop period. Ignored when Ticks is set.
	TickInterval time.Duration
	// Ticks replaces the internal ticker. Each received time is one tick.
	Ticks <-chan time.Time

	Store        ScoreStore // optional
	Player       string     // recorded with saved scores
	StoreTimeout time.Duration

	Logger *log.Logger
}

// Runner owns one game and its driver loop.
type Runner struct {
	opts   Options
	game   *tetris.Game
	logger *log.Logger

	requests chan request
	done     chan struct{}
	doneOnce sync.Once

	mu       sync.RWMutex
	snap     tetris.Snapshot
	table    []storage.HighScore
	newBest  bool
	subs     map[*subscriber]struct{}
	saved    bool
	lastTick time.Time
}

type request struct {
	cmd     tetris.Command
	restart bool
	seed    int64
	reply   chan tetris.Snapshot
}

// New creates a runner and its first game. Call Run to start the clock.
func New(opts Options) *Runner {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second / 60
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 3 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Runner{
		opts:     opts,
		game:     tetris.New(opts.Engine, opts.Seed),
		logger:   logger,
		requests: make(chan request),
		done:     make(chan struct{}),
		subs:     make(map[*subscriber]struct{}),
	}
	r.snap = r.game.Snapshot()
	return r
}

// Run loads the high-score table and then processes ticks and commands
// until ctx is canceled. It returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	defer r.stop()

	r.loadScores(ctx)
	r.logger.Info("game started", "seed", r.game.Seed(), "player", r.opts.Player)

	ticks := r.opts.Ticks
	if ticks == nil {
		ticker := time.NewTicker(r.opts.TickInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			r.tick(ctx, now)

		case req := <-r.requests:
			r.handle(ctx, req)

		case <-ctx.Done():
			return nil
		}
	}
}

// Send applies one command and returns the resulting snapshot.
func (r *Runner) Send(ctx context.Context, cmd tetris.Command) (tetris.Snapshot, error) {
	return r.do(ctx, request{cmd: cmd})
}

// Restart discards the current game and starts a new one with seed
// (0 picks one from the clock).
func (r *Runner) Restart(ctx context.Context, seed int64) (tetris.Snapshot, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return r.do(ctx, request{restart: true, seed: seed})
}

func (r *Runner) do(ctx context.Context, req request) (tetris.Snapshot, error) {
	req.reply = make(chan tetris.Snapshot, 1)
	select {
	case r.requests <- req:
	case <-r.done:
		return tetris.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return tetris.Snapshot{}, ctx.Err()
	}
	select {
	case s := <-req.reply:
		return s, nil
	case <-r.done:
		return tetris.Snapshot{}, ErrStopped
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the latest published snapshot.
func (r *Runner) Snapshot() tetris.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// HighScores returns the high-score table as last read or written.
func (r *Runner) HighScores() []storage.HighScore {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]storage.HighScore(nil), r.table...)
}

// Best returns the top score of the table, 0 if it is empty.
func (r *Runner) Best() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.table) == 0 {
		return 0
	}
	return r.table[0].Score
}

// NewBest reports whether the finished game topped the table.
func (r *Runner) NewBest() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newBest
}

func (r *Runner) tick(ctx context.Context, now time.Time) {
	last := r.lastTick
	r.lastTick = now
	if last.IsZero() {
		return
	}
	dt := now.Sub(last)
	if dt > maxFrame {
		dt = maxFrame
	}

	before := r.game.Version()
	r.game.Advance(dt)
	if r.game.Version() != before {
		r.publish(ctx)
	}
}

func (r *Runner) handle(ctx context.Context, req request) {
	if req.restart {
		r.game.Reset(req.seed)
		r.mu.Lock()
		r.saved = false
		r.newBest = false
		r.mu.Unlock()
		r.logger.Info("game restarted", "seed", req.seed)
		r.publish(ctx)
	} else if r.game.Apply(req.cmd) {
		r.publish(ctx)
	}
	req.reply <- r.Snapshot()
}

// publish stores a fresh snapshot, records a finished game once and fans
// the snapshot out to subscribers.
func (r *Runner) publish(ctx context.Context) {
	snap := r.game.Snapshot()
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()

	if snap.Over() {
		r.finish(ctx, snap)
	}
	r.broadcast(snap)
}

func (r *Runner) finish(ctx context.Context, snap tetris.Snapshot) {
	r.mu.RLock()
	saved := r.saved
	table := r.table
	r.mu.RUnlock()
	if saved {
		return
	}

	newBest := storage.IsNewBest(table, snap.Score)
	r.logger.Info("game over",
		"score", snap.Score,
		"level", snap.Level,
		"lines", snap.Lines,
		"new_best", newBest,
	)

	r.mu.Lock()
	r.saved = true
	r.newBest = newBest
	r.mu.Unlock()

	if r.opts.Store == nil {
		return
	}

	hs := storage.NewHighScore(r.opts.Player, snap.Score, snap.Level, snap.Lines)
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.StoreTimeout)
	defer cancel()
	if err := r.opts.Store.SaveScore(saveCtx, hs); err != nil {
		r.logger.Warn("could not save score", "error", err)
		return
	}

	r.mu.Lock()
	r.table = storage.Rank(append(append([]storage.HighScore(nil), r.table...), hs))
	r.mu.Unlock()
}

func (r *Runner) loadScores(ctx context.Context) {
	if r.opts.Store == nil {
		return
	}
	loadCtx, cancel := context.WithTimeout(ctx, r.opts.StoreTimeout)
	defer cancel()

	table, err := r.opts.Store.TopScores(loadCtx)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		r.logger.Warn("high-score table is corrupt, starting empty", "error", err)
		table = nil
	case err != nil:
		r.logger.Warn("could not load high scores", "error", err)
		table = nil
	}

	r.mu.Lock()
	r.table = storage.Rank(table)
	r.mu.Unlock()
}

func (r *Runner) stop() {
	r.doneOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		for s := range r.subs {
			s.close()
		}
		r.subs = map[*subscriber]struct{}{}
		r.mu.Unlock()
	})
}
