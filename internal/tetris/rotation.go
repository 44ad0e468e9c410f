package tetris

// Kick tables for clockwise turns, indexed by the state being left.
// Offsets are in board coordinates (y down), i.e. the usual SRS tables
// with the y component negated.
var (
	kicksJLSTZ = [4][]Point{
		RotationSpawn:   {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		RotationRight:   {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		RotationReverse: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		RotationLeft:    {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	}
	kicksI = [4][]Point{
		RotationSpawn:   {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		RotationRight:   {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
		RotationReverse: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		RotationLeft:    {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	}
	kicksO = []Point{{0, 0}}
)

// Kicks returns the ordered offsets tried when turning a piece of type t
// out of state from. A counter-clockwise turn s -> s-1 mirrors the
// clockwise entry for s-1 -> s.
func Kicks(t PieceType, from Rotation, clockwise bool) []Point {
	if t == PieceO {
		return append([]Point(nil), kicksO...)
	}
	table := &kicksJLSTZ
	if t == PieceI {
		table = &kicksI
	}
	if clockwise {
		out := make([]Point, len(table[from&3]))
		copy(out, table[from&3])
		return out
	}
	src := table[from.CCW()]
	out := make([]Point, len(src))
	for i, k := range src {
		out[i] = Point{X: -k.X, Y: -k.Y}
	}
	return out
}

// TryRotate resolves a rotation request. It returns the rotated piece and
// true when some kick offset fits, or p unchanged and false otherwise.
func TryRotate(b *Board, p Piece, clockwise bool) (Piece, bool) {
	to := p.Rotation.CW()
	if !clockwise {
		to = p.Rotation.CCW()
	}
	shape := ShapeOf(p.Type, to)
	for _, k := range Kicks(p.Type, p.Rotation, clockwise) {
		at := p.Anchor.Add(k)
		if IsValid(b, shape, at) {
			return Piece{Type: p.Type, Rotation: to, Anchor: at}, true
		}
	}
	return p, false
}
