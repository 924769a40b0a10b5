package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Errorf("NewScreen(80, 24) = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != (Cell{Rune: ' '}) {
				t.Fatalf("GetCell(%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds writes are dropped
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenColors(t *testing.T) {
	s := NewScreen(10, 3)

	s.SetColored(1, 1, '@', ColorOrange)
	if c := s.GetCell(1, 1); c.Rune != '@' || c.Color != ColorOrange {
		t.Errorf("GetCell(1, 1) = %+v, expected orange @", c)
	}

	s.Set(1, 1, '#')
	if c := s.GetCell(1, 1); c.Color != ColorDefault {
		t.Errorf("Set() kept color %v, expected default", c.Color)
	}

	s.DrawTextColored(2, 0, "abc", ColorGreen)
	for x := 2; x < 5; x++ {
		if s.GetCell(x, 0).Color != ColorGreen {
			t.Errorf("GetCell(%d, 0).Color = %v, expected green", x, s.GetCell(x, 0).Color)
		}
	}

	s.Clear()
	if c := s.GetCell(3, 0); c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("after Clear() cell = %+v, expected blank", c)
	}
}

func TestColorBright(t *testing.T) {
	tests := []struct {
		in, expected Color
	}{
		{ColorRed, ColorBrightRed},
		{ColorCyan, ColorBrightCyan},
		{ColorWhite, ColorBrightWhite},
		{ColorGray, ColorBrightWhite},
		{ColorOrange, ColorOrange},
		{ColorBrightBlue, ColorBrightBlue},
	}
	for _, tt := range tests {
		if got := tt.in.Bright(); got != tt.expected {
			t.Errorf("%v.Bright() = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(4, 2)
	s.Fill('#')
	if s.String() != "####\n####" {
		t.Errorf("Fill('#') = %q", s.String())
	}
	s.Clear()
	if s.String() != "    \n    " {
		t.Errorf("Clear() = %q", s.String())
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(8, 3)
	s.DrawText(5, 1, "Hello")
	if got := s.Row(1); got != "     Hel" {
		t.Errorf("Row(1) = %q, expected clipped text", got)
	}

	s.DrawText(0, 2, "▲▼")
	if s.Get(1, 2) != '▼' {
		t.Errorf("Get(1, 2) = %q, expected multi-byte rune in the next column", s.Get(1, 2))
	}

	s.Clear()
	s.DrawTextCentered(0, "ab")
	if got := s.Row(0); got != "   ab   " {
		t.Errorf("DrawTextCentered() row = %q", got)
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawRect(NewRect(1, 1, 2, 2), '#')
	expected := "     \n ##  \n ##  \n     "
	if s.String() != expected {
		t.Errorf("DrawRect() = %q, expected %q", s.String(), expected)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(NewRect(0, 0, 5, 3))
	expected := "┌───┐ \n│   │ \n└───┘ \n      "
	if s.String() != expected {
		t.Errorf("DrawBox() = %q, expected %q", s.String(), expected)
	}

	s.Clear()
	s.DrawBoxColored(NewRect(1, 1, 1, 1), ColorRed)
	if s.String() != "      \n      \n      \n      " {
		t.Error("DrawBoxColored() drew a box smaller than 2x2")
	}
}

func TestScreenLines(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawHLine(0, 0, 10, '-')
	s.DrawVLine(3, 0, 10, '|')
	if s.String() != "---|\n   |\n   |" {
		t.Errorf("lines = %q", s.String())
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorBlue)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("after Resize(8, 4) dimensions = %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Hello") {
		t.Errorf("Row(0) = %q, expected preserved content", s.Row(0))
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Hello") || s.GetCell(0, 0).Color != ColorBlue {
		t.Errorf("enlarging lost content: %q %v", s.Row(0), s.GetCell(0, 0))
	}
	if s.Row(7) != strings.Repeat(" ", 15) {
		t.Errorf("Row(7) = %q, expected blank", s.Row(7))
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(-1); got != "   " {
		t.Errorf("Row(-1) = %q, expected spaces", got)
	}
}
