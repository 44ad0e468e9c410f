package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

const (
	cellW  = 2 // screen columns per board cell
	panelW = 12

	boardW = Width*cellW + 2
	boardH = Height + 2

	// LayoutW and LayoutH are the smallest screen that fits the full layout.
	LayoutW = panelW + 1 + boardW + 1 + panelW
	LayoutH = boardH

	maxPreviewShown = (boardH - 2) / 3
)

// HUD carries the values shown next to the board that are not part of
// the game state itself.
type HUD struct {
	Player  string
	Best    int
	NewBest bool
}

// Render draws the snapshot centered on dst: hold and stats on the left,
// the well in the middle, the next queue on the right.
func Render(dst *core.Screen, s Snapshot, hud HUD) {
	dst.Clear()

	if dst.Width() < LayoutW || dst.Height() < LayoutH {
		renderTooSmall(dst)
		return
	}

	ox := core.Clamp((dst.Width()-LayoutW)/2, 0, dst.Width()-LayoutW)
	oy := core.Clamp((dst.Height()-LayoutH)/2, 0, dst.Height()-LayoutH)

	hold := core.NewRect(ox, oy, panelW, 4)
	well := core.NewRect(hold.Right()+1, oy, boardW, boardH)
	shown := min(len(s.Next), maxPreviewShown)
	next := core.NewRect(well.Right()+1, oy, panelW, 2+3*shown)

	renderHold(dst, hold, s)
	renderStats(dst, core.NewRect(ox, hold.Bottom()+1, panelW, LayoutH-hold.H-1), s, hud)
	renderWell(dst, well, s)
	renderNext(dst, next, s.Next[:shown])
	renderOverlay(dst, well, s, hud)
}

func renderTooSmall(dst *core.Screen) {
	full := core.NewRect(0, 0, dst.Width(), dst.Height())
	y := dst.Height() / 2
	dst.DrawTextCentered(full, y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(full, y+1, fmt.Sprintf("Need %dx%d", LayoutW, LayoutH), core.ColorGray)
}

func renderHold(dst *core.Screen, r core.Rect, s Snapshot) {
	dst.DrawBox(r, core.ColorGray)
	dst.DrawTextCentered(r, r.Y, " HOLD ", core.ColorWhite)
	if s.Hold == NoPiece {
		return
	}
	t := PieceType(s.Hold)
	c := t.Color()
	if !s.CanHold {
		c = core.ColorGray
	}
	drawMini(dst, r.Inset(1), t, c)
}

func renderStats(dst *core.Screen, r core.Rect, s Snapshot, hud HUD) {
	rows := []struct {
		label string
		value int
	}{
		{"SCORE", s.Score},
		{"LEVEL", s.Level},
		{"LINES", s.Lines},
		{"BEST", max(hud.Best, s.Score)},
	}
	y := r.Y
	for _, row := range rows {
		dst.DrawTextColor(r.X+1, y, row.label, core.ColorGray)
		dst.DrawTextColor(r.X+1, y+1, fmt.Sprintf("%*d", r.W-2, row.value), core.ColorBrightWhite)
		y += 3
	}

	if hud.Player != "" {
		name := []rune(hud.Player)
		if len(name) > r.W-2 {
			name = name[:r.W-2]
		}
		dst.DrawTextColor(r.X+1, r.Bottom()-1, string(name), core.ColorCyan)
	}
}

func renderWell(dst *core.Screen, r core.Rect, s Snapshot) {
	dst.DrawBox(r, core.ColorGray)
	dst.DrawTextCentered(r, r.Y, " TETRIS ", core.ColorBrightWhite)

	inner := r.Inset(1)
	for y := range Height {
		for x := range Width {
			px := inner.X + x*cellW
			if t, ok := s.CellAt(x, y); ok {
				drawBlock(dst, px, inner.Y+y, '█', t.Color())
				continue
			}
			dst.SetColor(px+1, inner.Y+y, '·', core.ColorGray)
		}
	}

	if ghost, ok := s.Ghost(); ok && ghost.Anchor.Y != s.ActiveY {
		drawPiece(dst, inner, ghost, '░')
	}
	if active, ok := s.Active(); ok {
		drawPiece(dst, inner, active, '█')
	}
}

// drawPiece draws p inside the well, skipping cells still above it.
func drawPiece(dst *core.Screen, inner core.Rect, p Piece, r rune) {
	for _, c := range p.Cells() {
		x, y := inner.X+c.X*cellW, inner.Y+c.Y
		if !inner.Contains(x, y) {
			continue
		}
		drawBlock(dst, x, y, r, p.Type.Color())
	}
}

func renderNext(dst *core.Screen, r core.Rect, next []int) {
	if len(next) == 0 {
		return
	}
	dst.DrawBox(r, core.ColorGray)
	dst.DrawTextCentered(r, r.Y, " NEXT ", core.ColorWhite)

	inner := r.Inset(1)
	for i, v := range next {
		slot := core.NewRect(inner.X, inner.Y+i*3, inner.W, 2)
		t := PieceType(v)
		drawMini(dst, slot, t, t.Color())
	}
}

func renderOverlay(dst *core.Screen, well core.Rect, s Snapshot, hud HUD) {
	mid := well.Y + well.H/2
	switch {
	case s.Over():
		dst.DrawTextCentered(well, mid-1, " GAME OVER ", core.ColorBrightRed)
		if hud.NewBest {
			dst.DrawTextCentered(well, mid, " NEW BEST! ", core.ColorBrightGreen)
		}
		dst.DrawTextCentered(well, mid+1, " R: restart ", core.ColorWhite)
	case s.Paused:
		dst.DrawTextCentered(well, mid, " PAUSED ", core.ColorBrightYellow)
		dst.DrawTextCentered(well, mid+1, " P: resume ", core.ColorWhite)
	}
}

// drawMini draws the spawn orientation of t in a two-row slot, trimmed
// to its occupied rows and centered horizontally.
func drawMini(dst *core.Screen, slot core.Rect, t PieceType, c core.Color) {
	blocks := ShapeOf(t, RotationSpawn).Blocks()
	minX, maxX, minY := MaxShapeSize, 0, MaxShapeSize
	for _, b := range blocks {
		minX = min(minX, b.X)
		maxX = max(maxX, b.X)
		minY = min(minY, b.Y)
	}
	w := (maxX - minX + 1) * cellW
	x0 := slot.X + (slot.W-w)/2
	for _, b := range blocks {
		drawBlock(dst, x0+(b.X-minX)*cellW, slot.Y+b.Y-minY, '█', c)
	}
}

func drawBlock(dst *core.Screen, x, y int, r rune, c core.Color) {
	for i := range cellW {
		dst.SetColor(x+i, y, r, c)
	}
}
