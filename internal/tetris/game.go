package tetris

import (
	"math/rand"
	"time"
)

// State is the controller state tag.
type State string

const (
	StateSpawning    State = "spawning"
	StateFalling     State = "falling"
	StateLockPending State = "lock_pending"
	StateLocked      State = "locked"
	StateGameOver    State = "game_over"
)

// MinPreview is the smallest allowed next-queue length.
const MinPreview = 3

// Config holds the tunable timing of the controller.
type Config struct {
	Gravity   GravityConfig
	LockDelay time.Duration
	// MaxLockResets caps how many times moving or rotating a grounded piece
	// restarts the lock delay. 0 means unlimited.
	MaxLockResets int
	// Preview is the length of the next queue.
	Preview int
}

// DefaultConfig returns the stock timing.
func DefaultConfig() Config {
	return Config{
		Gravity: GravityConfig{
			BaseInterval:  1000 * time.Millisecond,
			FloorInterval: 50 * time.Millisecond,
			LevelDelta:    80 * time.Millisecond,
		},
		LockDelay:     500 * time.Millisecond,
		MaxLockResets: 0,
		Preview:       MinPreview,
	}
}

// Game is the piece controller. It owns the board, the bag, the next
// queue, the hold slot and the stats, and is not safe for concurrent use:
// a single driver must serialize Apply and Advance calls.
type Game struct {
	cfg  Config
	seed int64
	bag  *Bag

	board     *Board
	active    Piece
	hasActive bool
	next      []PieceType

	hold    PieceType
	hasHold bool
	canHold bool

	stats     Stats
	state     State
	paused    bool
	lastClear int
	pieces    int
	version   uint64

	gravityAcc time.Duration
	lockAcc    time.Duration
	lockResets int
}

// New creates a game with the given timing and RNG seed and spawns the
// first piece.
func New(cfg Config, seed int64) *Game {
	if cfg.Preview < MinPreview {
		cfg.Preview = MinPreview
	}
	g := &Game{cfg: cfg}
	g.Reset(seed)
	return g
}

// Reset starts a new game on an empty board.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.bag = NewBag(rand.New(rand.NewSource(seed)))
	g.board = NewBoard()
	g.hasActive = false
	g.next = g.next[:0]
	g.hasHold = false
	g.canHold = true
	g.stats = Stats{Level: 1}
	g.paused = false
	g.lastClear = 0
	g.pieces = 0
	g.version++
	g.fillQueue()
	g.spawnNext()
}

// Seed returns the seed the current game was started with.
func (g *Game) Seed() int64 {
	return g.seed
}

// State returns the controller state.
func (g *Game) State() State {
	return g.state
}

// Stats returns score, level and lines.
func (g *Game) Stats() Stats {
	return g.stats
}

// Paused reports whether the clock is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// Version increases on every observable state change.
func (g *Game) Version() uint64 {
	return g.version
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.state == StateGameOver
}

// Active returns the active piece, if any.
func (g *Game) Active() (Piece, bool) {
	return g.active, g.hasActive
}

// GravityInterval returns the current time between gravity ticks.
func (g *Game) GravityInterval() time.Duration {
	return GravityInterval(g.stats.Level, g.cfg.Gravity)
}

// Apply handles one player command and reports whether it changed the
// game. Illegal moves are rejected silently. While paused only
// CmdPause/CmdResume are accepted; after game over nothing is.
func (g *Game) Apply(cmd Command) bool {
	if !g.apply(cmd) {
		return false
	}
	g.version++
	return true
}

func (g *Game) apply(cmd Command) bool {
	if g.state == StateGameOver {
		return false
	}
	switch cmd {
	case CmdPause:
		g.paused = !g.paused
		return true
	case CmdResume:
		if !g.paused {
			return false
		}
		g.paused = false
		return true
	}
	if g.paused || !g.hasActive {
		return false
	}

	switch cmd {
	case CmdMoveLeft:
		return g.shift(Point{X: -1})
	case CmdMoveRight:
		return g.shift(Point{X: 1})
	case CmdRotateCW:
		return g.rotate(true)
	case CmdRotateCCW:
		return g.rotate(false)
	case CmdSoftDrop:
		if g.shift(Point{Y: 1}) {
			g.stats.Score += SoftDropPoints
			return true
		}
		return false
	case CmdHardDrop:
		g.hardDrop()
		return true
	case CmdHold:
		return g.holdPiece()
	}
	return false
}

// Gravity performs one gravity tick. A falling piece moves down one row;
// a piece that cannot enters lock delay. Returns true if the piece moved.
func (g *Game) Gravity() bool {
	if g.paused || g.state != StateFalling {
		return false
	}
	g.gravityAcc = 0
	g.version++
	down := g.active
	down.Anchor.Y++
	if g.board.Fits(down) {
		g.active = down
		return true
	}
	g.state = StateLockPending
	g.lockAcc = 0
	return false
}

// ExpireLock fires the lock-delay timer: the grounded piece is locked and
// the next one spawned. Returns false if no lock was pending.
func (g *Game) ExpireLock() bool {
	if g.paused || g.state != StateLockPending {
		return false
	}
	g.version++
	g.lock()
	return true
}

// Advance feeds elapsed wall time into whichever timer is live: gravity
// while falling, lock delay while grounded. Paused and finished games
// ignore time entirely, so resuming never catches up on missed ticks.
func (g *Game) Advance(dt time.Duration) {
	if g.paused {
		return
	}
	for dt > 0 {
		switch g.state {
		case StateFalling:
			need := g.GravityInterval() - g.gravityAcc
			if dt < need {
				g.gravityAcc += dt
				return
			}
			dt -= need
			g.Gravity()
		case StateLockPending:
			need := g.cfg.LockDelay - g.lockAcc
			if dt < need {
				g.lockAcc += dt
				return
			}
			dt -= need
			g.ExpireLock()
		default:
			return
		}
	}
}

// shift moves the active piece by d if the target fits.
func (g *Game) shift(d Point) bool {
	moved := g.active
	moved.Anchor = moved.Anchor.Add(d)
	if !g.board.Fits(moved) {
		return false
	}
	g.active = moved
	g.settle()
	return true
}

func (g *Game) rotate(clockwise bool) bool {
	rotated, ok := TryRotate(g.board, g.active, clockwise)
	if !ok {
		return false
	}
	g.active = rotated
	g.settle()
	return true
}

// settle updates the timers after a successful move or rotation.
func (g *Game) settle() {
	if g.state != StateLockPending {
		return
	}
	if !g.board.Grounded(g.active) {
		g.state = StateFalling
		g.gravityAcc = 0
		g.lockAcc = 0
		return
	}
	if g.cfg.MaxLockResets == 0 || g.lockResets < g.cfg.MaxLockResets {
		g.lockAcc = 0
		g.lockResets++
	}
}

func (g *Game) hardDrop() {
	ghost := GhostPosition(g.board, g.active)
	g.stats.Score += (ghost.Y - g.active.Anchor.Y) * HardDropPoints
	g.active.Anchor = ghost
	g.lock()
}

func (g *Game) holdPiece() bool {
	if !g.canHold {
		return false
	}
	current := g.active.Type
	g.canHold = false
	if !g.hasHold {
		g.hold, g.hasHold = current, true
		g.spawnNext()
		return true
	}
	swap := g.hold
	g.hold = current
	g.spawn(swap)
	return true
}

// lock merges the active piece, clears rows, scores and spawns the next
// piece in one step.
func (g *Game) lock() {
	g.state = StateLocked
	g.board.Merge(g.active)
	g.hasActive = false
	g.pieces++

	g.lastClear = g.board.ClearLines()
	g.stats.applyLock(g.lastClear)
	g.canHold = true
	g.spawnNext()
}

// spawnNext pops the next queue and spawns that type.
func (g *Game) spawnNext() {
	t := g.next[0]
	g.next = append(g.next[:0], g.next[1:]...)
	g.fillQueue()
	g.spawn(t)
}

// spawn places a fresh piece of type t. If it does not fit the game ends.
func (g *Game) spawn(t PieceType) {
	g.state = StateSpawning
	g.gravityAcc = 0
	g.lockAcc = 0
	g.lockResets = 0

	p := SpawnPiece(t)
	if !g.board.Fits(p) {
		g.hasActive = false
		g.state = StateGameOver
		return
	}
	g.active = p
	g.hasActive = true
	g.state = StateFalling
}

func (g *Game) fillQueue() {
	for len(g.next) < g.cfg.Preview {
		g.next = append(g.next, g.bag.Next())
	}
}
