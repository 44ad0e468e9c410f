package tetris

import "time"

// NoPiece marks an empty piece slot in a Snapshot.
const NoPiece = -1

// Snapshot is a read-only copy of the observable game state.
// Uses primitive types only so it can be serialized and compared directly.
type Snapshot struct {
	State  State `json:"state"`
	Paused bool  `json:"paused"`

	Score int `json:"score"`
	Level int `json:"level"`
	Lines int `json:"lines"`

	// Board cells, row-major from the top: 0 is empty, otherwise
	// PieceType+1 of the piece that locked there.
	Board []int `json:"board"`

	// Active piece. ActiveType is NoPiece while spawning or after game over.
	ActiveType     int `json:"active_type"`
	ActiveRotation int `json:"active_rotation"`
	ActiveX        int `json:"active_x"`
	ActiveY        int `json:"active_y"`
	GhostY         int `json:"ghost_y"`

	Hold    int   `json:"hold"` // NoPiece when empty
	CanHold bool  `json:"can_hold"`
	Next    []int `json:"next"`

	LastClear       int           `json:"last_clear"`
	Pieces          int           `json:"pieces"`
	GravityInterval time.Duration `json:"gravity_interval"`
	Seed            int64         `json:"seed"`
	Version         uint64        `json:"version"`
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	board := make([]int, Width*Height)
	for y := range Height {
		for x := range Width {
			if c := g.board.cells[y][x]; c.Filled {
				board[y*Width+x] = int(c.Type) + 1
			}
		}
	}

	next := make([]int, len(g.next))
	for i, t := range g.next {
		next[i] = int(t)
	}

	s := Snapshot{
		State:           g.state,
		Paused:          g.paused,
		Score:           g.stats.Score,
		Level:           g.stats.Level,
		Lines:           g.stats.Lines,
		Board:           board,
		ActiveType:      NoPiece,
		Hold:            NoPiece,
		CanHold:         g.canHold,
		Next:            next,
		LastClear:       g.lastClear,
		Pieces:          g.pieces,
		GravityInterval: g.GravityInterval(),
		Seed:            g.seed,
		Version:         g.version,
	}
	if g.hasActive {
		s.ActiveType = int(g.active.Type)
		s.ActiveRotation = int(g.active.Rotation)
		s.ActiveX = g.active.Anchor.X
		s.ActiveY = g.active.Anchor.Y
		s.GhostY = GhostPosition(g.board, g.active).Y
	}
	if g.hasHold {
		s.Hold = int(g.hold)
	}
	return s
}

// CellAt returns the locked cell at (x, y) in the snapshot.
func (s Snapshot) CellAt(x, y int) (PieceType, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height || len(s.Board) != Width*Height {
		return 0, false
	}
	v := s.Board[y*Width+x]
	if v == 0 {
		return 0, false
	}
	return PieceType(v - 1), true
}

// Active returns the active piece in the snapshot, if there is one.
func (s Snapshot) Active() (Piece, bool) {
	if s.ActiveType == NoPiece {
		return Piece{}, false
	}
	return Piece{
		Type:     PieceType(s.ActiveType),
		Rotation: Rotation(s.ActiveRotation),
		Anchor:   Point{X: s.ActiveX, Y: s.ActiveY},
	}, true
}

// Ghost returns the ghost piece: the active piece dropped to GhostY.
func (s Snapshot) Ghost() (Piece, bool) {
	p, ok := s.Active()
	if !ok {
		return Piece{}, false
	}
	p.Anchor.Y = s.GhostY
	return p, true
}

// Over reports whether the snapshot is of a finished game.
func (s Snapshot) Over() bool {
	return s.State == StateGameOver
}
