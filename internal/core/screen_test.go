package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Errorf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(5, 5, 'X', ColorRed)
	if got := s.GetCell(5, 5); got.Rune != 'X' || got.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red 'X'", got)
	}

	s.Set(5, 5, 'Y')
	if got := s.GetCell(5, 5); got.Color != ColorDefault {
		t.Errorf("Set should reset color, got %v", got.Color)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.GetCell(-1, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.GetCell(100, 0).Rune != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			s.SetColor(x, y, 'X', ColorBlue)
		}
	}

	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if s.GetCell(x, y) != blank {
				t.Errorf("After Clear, expected blank at (%d, %d), got %+v", x, y, s.GetCell(x, y))
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawTextColor(2, 0, "héllo", ColorGreen)

	if got := s.Row(0); got != "  héllo   " {
		t.Errorf("Row(0) = %q", got)
	}
	if s.GetCell(3, 0).Color != ColorGreen {
		t.Error("text should carry its color")
	}

	// Clipped at the right edge
	s.DrawTextColor(8, 1, "abc", ColorDefault)
	if got := s.Row(1); got != "        ab" {
		t.Errorf("Row(1) = %q", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 1)
	s.DrawTextCentered(NewRect(10, 0, 10, 1), 0, "abcd", ColorDefault)
	if got := s.Row(0); got != strings.Repeat(" ", 13)+"abcd"+"   " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	want := []string{
		"┌───┐",
		"│   │",
		"│   │",
		"└───┘",
	}
	for y, row := range want {
		if got := s.Row(y); got != row {
			t.Errorf("Row(%d) = %q, expected %q", y, got, row)
		}
	}
	if s.GetCell(0, 0).Color != ColorGray {
		t.Error("box should carry its color")
	}

	// Degenerate boxes draw nothing
	s.Clear()
	s.DrawBox(NewRect(0, 0, 1, 3), ColorGray)
	if s.GetCell(0, 0).Rune != ' ' {
		t.Error("1-wide box should not be drawn")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'a')
	s.Set(2, 1, 'b')

	if got := s.String(); got != "a  \n  b" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColor(1, 1, 'X', ColorCyan)
	s.SetColor(4, 4, 'Y', ColorCyan)

	s.Resize(3, 3)
	if s.Width() != 3 || s.Height() != 3 {
		t.Fatalf("Resize: got %dx%d", s.Width(), s.Height())
	}
	if s.GetCell(1, 1) != (Cell{Rune: 'X', Color: ColorCyan}) {
		t.Error("content inside the new bounds should be preserved")
	}

	s.Resize(6, 6)
	if s.GetCell(4, 4).Rune != ' ' {
		t.Error("content outside the old bounds should be lost")
	}
	if s.GetCell(1, 1).Rune != 'X' {
		t.Error("content should survive growing")
	}

	s.Resize(-1, 2)
	if s.Width() != 0 {
		t.Errorf("negative width should clamp to 0, got %d", s.Width())
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(4, 1)
	if got := s.Row(5); got != "    " {
		t.Errorf("Row(5) = %q", got)
	}
}
