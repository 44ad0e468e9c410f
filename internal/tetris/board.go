package tetris

// Board dimensions.
const (
	Width  = 10
	Height = 20
)

// Cell is one board square. The zero value is empty.
type Cell struct {
	Filled bool
	Type   PieceType // color identity only; meaningless once locked
}

// Board is the grid of locked cells. Row 0 is the top.
type Board struct {
	cells [Height][Width]Cell
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// At returns the cell at (x, y). Out-of-range coordinates read as empty.
func (b *Board) At(x, y int) Cell {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Cell{}
	}
	return b.cells[y][x]
}

// Set locks a cell of type t at (x, y). Out-of-range writes are ignored.
func (b *Board) Set(x, y int, t PieceType) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	b.cells[y][x] = Cell{Filled: true, Type: t}
}

// Clear empties every cell.
func (b *Board) Clear() {
	b.cells = [Height][Width]Cell{}
}

// Rows returns a copy of the grid.
func (b *Board) Rows() [Height][Width]Cell {
	return b.cells
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// IsValid reports whether shape s anchored at `at` is legal on board b.
// Cells above the visible board (y < 0) are always free so pieces can
// spawn partially above the skyline.
func IsValid(b *Board, s Shape, at Point) bool {
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			if !s.Cells[y][x] {
				continue
			}
			bx, by := at.X+x, at.Y+y
			if bx < 0 || bx >= Width || by >= Height {
				return false
			}
			if by >= 0 && b.cells[by][bx].Filled {
				return false
			}
		}
	}
	return true
}

// Fits is the method form of IsValid for a whole piece.
func (b *Board) Fits(p Piece) bool {
	return IsValid(b, p.Shape(), p.Anchor)
}

// Grounded reports whether p cannot move one row down.
func (b *Board) Grounded(p Piece) bool {
	return !IsValid(b, p.Shape(), p.Anchor.Add(Point{Y: 1}))
}

// Merge writes p's occupied cells into the board as locked cells.
// Sub-cells above the skyline are dropped.
func (b *Board) Merge(p Piece) {
	for _, c := range p.Cells() {
		b.Set(c.X, c.Y, p.Type)
	}
}

// rowFull reports whether every column of row y is locked.
func (b *Board) rowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if !b.cells[y][x].Filled {
			return false
		}
	}
	return true
}

// FullRows returns the indices of completed rows, top to bottom.
func (b *Board) FullRows() []int {
	var rows []int
	for y := 0; y < Height; y++ {
		if b.rowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearLines removes every completed row, shifts the rows above down and
// inserts empty rows at the top. The board height never changes.
// Returns the number of rows removed.
func (b *Board) ClearLines() int {
	write := Height - 1
	for read := Height - 1; read >= 0; read-- {
		if b.rowFull(read) {
			continue
		}
		if write != read {
			b.cells[write] = b.cells[read]
		}
		write--
	}
	cleared := write + 1
	for y := write; y >= 0; y-- {
		b.cells[y] = [Width]Cell{}
	}
	return cleared
}

// GhostPosition returns the lowest anchor p can reach by falling straight
// down from its current anchor. It does not modify the board or the piece.
func GhostPosition(b *Board, p Piece) Point {
	s := p.Shape()
	at := p.Anchor
	for IsValid(b, s, at.Add(Point{Y: 1})) {
		at.Y++
	}
	return at
}
