// Package tetris implements the falling-block rules engine: shape library,
// 7-bag randomizer, board and collision checks, SRS rotation, the piece
// controller state machine and scoring. It performs no I/O and starts no
// goroutines; the platform drives it through Apply and Advance.
package tetris

import "github.com/vovakirdan/tui-tetris/internal/core"

// PieceType identifies one of the seven tetrominoes.
type PieceType int

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// PieceCount is the number of distinct piece types.
const PieceCount = 7

// AllPieces lists every piece type in canonical order.
var AllPieces = [PieceCount]PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// String returns the single-letter name of the piece.
func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	default:
		return "?"
	}
}

// Valid reports whether t is one of the seven piece types.
func (t PieceType) Valid() bool {
	return t >= PieceI && t <= PieceL
}

// Color returns the render color identity of the piece.
func (t PieceType) Color() core.Color {
	switch t {
	case PieceI:
		return core.ColorBrightCyan
	case PieceO:
		return core.ColorBrightYellow
	case PieceT:
		return core.ColorMagenta
	case PieceS:
		return core.ColorBrightGreen
	case PieceZ:
		return core.ColorBrightRed
	case PieceJ:
		return core.ColorBlue
	case PieceL:
		return core.ColorOrange
	default:
		return core.ColorDefault
	}
}

// Rotation is an SRS rotation state.
type Rotation int

const (
	RotationSpawn   Rotation = iota // 0
	RotationRight                   // R
	RotationReverse                 // 2
	RotationLeft                    // L
)

// CW returns the state reached by a clockwise turn.
func (r Rotation) CW() Rotation {
	return (r + 1) & 3
}

// CCW returns the state reached by a counter-clockwise turn.
func (r Rotation) CCW() Rotation {
	return (r + 3) & 3
}

func (r Rotation) String() string {
	switch r & 3 {
	case RotationSpawn:
		return "0"
	case RotationRight:
		return "R"
	case RotationReverse:
		return "2"
	default:
		return "L"
	}
}

// Point is a board coordinate or offset. Y grows downward.
type Point struct {
	X, Y int
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Piece is the active piece: the only piece allowed to move.
type Piece struct {
	Type     PieceType
	Rotation Rotation
	Anchor   Point
}

// Shape returns the geometry of the piece in its current rotation.
func (p Piece) Shape() Shape {
	return ShapeOf(p.Type, p.Rotation)
}

// Cells returns the absolute board coordinates occupied by the piece.
func (p Piece) Cells() []Point {
	blocks := p.Shape().Blocks()
	for i := range blocks {
		blocks[i] = blocks[i].Add(p.Anchor)
	}
	return blocks
}

// SpawnPoint returns the anchor a fresh piece of type t spawns at:
// horizontally centered on the board, top row.
func SpawnPoint(t PieceType) Point {
	s := ShapeOf(t, RotationSpawn)
	return Point{X: Width/2 - s.Size/2, Y: 0}
}

// SpawnPiece builds a piece of type t at its spawn rotation and anchor.
func SpawnPiece(t PieceType) Piece {
	return Piece{Type: t, Rotation: RotationSpawn, Anchor: SpawnPoint(t)}
}
