package tetris

import "fmt"

// MaxShapeSize is the edge of the largest bounding box (I and O).
const MaxShapeSize = 4

// Shape is the occupancy matrix of a piece in one rotation state.
// Cells[y][x] is true for occupied sub-cells; only the top-left Size×Size
// region is meaningful.
type Shape struct {
	Size  int
	Cells [MaxShapeSize][MaxShapeSize]bool
}

// Blocks returns the occupied offsets in row-major order.
func (s Shape) Blocks() []Point {
	blocks := make([]Point, 0, 4)
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			if s.Cells[y][x] {
				blocks = append(blocks, Point{X: x, Y: y})
			}
		}
	}
	return blocks
}

// Occupied reports whether the sub-cell (x, y) is filled.
func (s Shape) Occupied(x, y int) bool {
	if x < 0 || y < 0 || x >= s.Size || y >= s.Size {
		return false
	}
	return s.Cells[y][x]
}

// shapes holds all 28 (type, rotation) combinations. They are written out
// by hand so that every state lines up with the SRS kick tables.
var shapes = [PieceCount][4]Shape{
	PieceI: {
		mustShape("....", "XXXX", "....", "...."),
		mustShape("..X.", "..X.", "..X.", "..X."),
		mustShape("....", "....", "XXXX", "...."),
		mustShape(".X..", ".X..", ".X..", ".X.."),
	},
	PieceO: {
		mustShape(".XX.", ".XX.", "....", "...."),
		mustShape(".XX.", ".XX.", "....", "...."),
		mustShape(".XX.", ".XX.", "....", "...."),
		mustShape(".XX.", ".XX.", "....", "...."),
	},
	PieceT: {
		mustShape(".X.", "XXX", "..."),
		mustShape(".X.", ".XX", ".X."),
		mustShape("...", "XXX", ".X."),
		mustShape(".X.", "XX.", ".X."),
	},
	PieceS: {
		mustShape(".XX", "XX.", "..."),
		mustShape(".X.", ".XX", "..X"),
		mustShape("...", ".XX", "XX."),
		mustShape("X..", "XX.", ".X."),
	},
	PieceZ: {
		mustShape("XX.", ".XX", "..."),
		mustShape("..X", ".XX", ".X."),
		mustShape("...", "XX.", ".XX"),
		mustShape(".X.", "XX.", "X.."),
	},
	PieceJ: {
		mustShape("X..", "XXX", "..."),
		mustShape(".XX", ".X.", ".X."),
		mustShape("...", "XXX", "..X"),
		mustShape(".X.", ".X.", "XX."),
	},
	PieceL: {
		mustShape("..X", "XXX", "..."),
		mustShape(".X.", ".X.", ".XX"),
		mustShape("...", "XXX", "X.."),
		mustShape("XX.", ".X.", ".X."),
	},
}

// ShapeOf returns the shape of piece type t in rotation r.
func ShapeOf(t PieceType, r Rotation) Shape {
	return shapes[t][r&3]
}

// mustShape builds a Shape from square row diagrams ('X' filled, '.' empty).
func mustShape(rows ...string) Shape {
	size := len(rows)
	if size == 0 || size > MaxShapeSize {
		panic(fmt.Sprintf("tetris: bad shape size %d", size))
	}
	s := Shape{Size: size}
	for y, row := range rows {
		if len(row) != size {
			panic(fmt.Sprintf("tetris: shape row %q is not %d wide", row, size))
		}
		for x, ch := range row {
			s.Cells[y][x] = ch == 'X'
		}
	}
	return s
}
