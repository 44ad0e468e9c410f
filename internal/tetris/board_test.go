package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < Width; x++ {
		if !skip[x] {
			b.Set(x, y, PieceJ)
		}
	}
}

func randomBoard(rng *rand.Rand, density float64) *Board {
	b := NewBoard()
	for y := 4; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if rng.Float64() < density {
				b.Set(x, y, PieceType(rng.Intn(PieceCount)))
			}
		}
	}
	return b
}

func TestIsValid(t *testing.T) {
	b := NewBoard()
	b.Set(5, 10, PieceT)
	o := ShapeOf(PieceO, RotationSpawn) // cells at x+1..x+2, y..y+1

	tests := []struct {
		name string
		at   Point
		want bool
	}{
		{"open space", Point{0, 0}, true},
		{"left wall", Point{-2, 5}, false},
		{"empty column outside box is fine", Point{-1, 5}, true},
		{"right wall", Point{8, 5}, false},
		{"floor", Point{3, 19}, false},
		{"resting on floor", Point{3, 18}, true},
		{"overlaps locked cell", Point{4, 9}, false},
		{"above skyline", Point{3, -2}, true},
		{"partially above skyline", Point{3, -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(b, o, tt.at))
		})
	}
}

func TestIsValidHasNoSideEffects(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 50 {
		b := randomBoard(rng, 0.4)
		before := b.Rows()
		s := ShapeOf(PieceType(rng.Intn(PieceCount)), Rotation(rng.Intn(4)))
		at := Point{X: rng.Intn(Width+4) - 2, Y: rng.Intn(Height+4) - 2}

		first := IsValid(b, s, at)
		second := IsValid(b, s, at)
		assert.Equal(t, first, second)
		assert.Equal(t, before, b.Rows())
	}
}

func TestClearLinesSingleRow(t *testing.T) {
	b := NewBoard()
	fillRow(b, Height-1)
	b.Set(0, Height-2, PieceT)

	require.Equal(t, 1, b.ClearLines())
	assert.True(t, b.At(0, Height-1).Filled, "row above shifts down")
	assert.Equal(t, PieceT, b.At(0, Height-1).Type)
	assert.False(t, b.At(1, Height-1).Filled)
	assert.Empty(t, b.FullRows())
}

func TestClearLinesNonAdjacentRows(t *testing.T) {
	b := NewBoard()
	fillRow(b, 5)
	fillRow(b, 19)
	fillRow(b, 18, 3)
	b.Set(7, 4, PieceL)

	require.Equal(t, []int{5, 19}, b.FullRows())
	require.Equal(t, 2, b.ClearLines())

	// row 18 drops by one, the marker above row 5 by two
	assert.False(t, b.At(3, 19).Filled)
	assert.True(t, b.At(0, 19).Filled)
	assert.True(t, b.At(7, 6).Filled)
	assert.False(t, b.At(7, 4).Filled)
	for y := 0; y < 2; y++ {
		for x := 0; x < Width; x++ {
			assert.False(t, b.At(x, y).Filled, "new top rows are empty")
		}
	}
	assert.Len(t, b.Rows(), Height)
}

func TestClearLinesTetris(t *testing.T) {
	b := NewBoard()
	for y := Height - 4; y < Height; y++ {
		fillRow(b, y)
	}
	assert.Equal(t, 4, b.ClearLines())
	assert.Equal(t, [Height][Width]Cell{}, b.Rows())
}

func TestClearLinesNothingFull(t *testing.T) {
	b := NewBoard()
	fillRow(b, Height-1, 9)
	before := b.Rows()
	assert.Equal(t, 0, b.ClearLines())
	assert.Equal(t, before, b.Rows())
}

func TestMergeDropsCellsAboveSkyline(t *testing.T) {
	b := NewBoard()
	p := Piece{Type: PieceI, Rotation: RotationRight, Anchor: Point{X: 0, Y: -2}}
	b.Merge(p)
	// occupies column 2, rows -2 through 1
	assert.True(t, b.At(2, 0).Filled)
	assert.True(t, b.At(2, 1).Filled)
	assert.False(t, b.At(2, 2).Filled)
}

func TestGhostPosition(t *testing.T) {
	b := NewBoard()
	b.Set(4, 15, PieceZ)
	p := SpawnPiece(PieceO)

	ghost := GhostPosition(b, p)
	assert.Equal(t, Point{X: 3, Y: 13}, ghost)
	assert.Equal(t, SpawnPoint(PieceO), p.Anchor, "piece is not modified")

	empty := GhostPosition(NewBoard(), p)
	assert.Equal(t, 18, empty.Y)
}

func TestGhostPositionIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for range 100 {
		b := randomBoard(rng, 0.3)
		p := Piece{
			Type:     PieceType(rng.Intn(PieceCount)),
			Rotation: Rotation(rng.Intn(4)),
			Anchor:   Point{X: rng.Intn(Width - 2), Y: -1},
		}
		if !b.Fits(p) {
			continue
		}
		ghost := GhostPosition(b, p)
		rested := p
		rested.Anchor = ghost
		assert.Equal(t, ghost, GhostPosition(b, rested))
		assert.True(t, b.Grounded(rested))
	}
}

func TestBoardClone(t *testing.T) {
	b := NewBoard()
	b.Set(1, 1, PieceS)
	c := b.Clone()
	c.Set(2, 2, PieceS)
	assert.False(t, b.At(2, 2).Filled)
	assert.True(t, c.At(1, 1).Filled)
}
