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
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
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

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Errorf("Get out of bounds = %q, expected space", s.Get(-1, 0))
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(2, 3, '@', ColorBrightGreen)
	c := s.GetCell(2, 3)
	if c.Rune != '@' {
		t.Errorf("Rune = %q, expected '@'", c.Rune)
	}
	if c.Color != ColorBrightGreen {
		t.Errorf("Color = %d, expected %d", c.Color, ColorBrightGreen)
	}

	s.Clear()
	if c := s.GetCell(2, 3); c.Color != ColorDefault {
		t.Errorf("Clear should reset color, got %d", c.Color)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColor(2, 1, "Score", ColorYellow)

	if got := s.Row(1)[2:7]; got != "Score" {
		t.Errorf("Row(1)[2:7] = %q, expected %q", got, "Score")
	}
	if s.GetCell(4, 1).Color != ColorYellow {
		t.Error("DrawTextColor should color every rune")
	}

	// Multi-byte runes advance one cell each
	s.DrawText(0, 2, "★x")
	if s.Get(1, 2) != 'x' {
		t.Errorf("Get(1, 2) = %q, expected 'x'", s.Get(1, 2))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Test")

	if got := s.Row(2)[8:12]; got != "Test" {
		t.Errorf("Centered text = %q, expected %q", got, "Test")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorGray)

	checks := []struct {
		x, y int
		r    rune
	}{
		{1, 1, '┌'},
		{5, 1, '┐'},
		{1, 4, '└'},
		{5, 4, '┘'},
		{3, 1, '─'},
		{1, 2, '│'},
		{3, 2, ' '},
	}
	for _, c := range checks {
		if got := s.Get(c.x, c.y); got != c.r {
			t.Errorf("Get(%d, %d) = %q, expected %q", c.x, c.y, got, c.r)
		}
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 2), '#')

	for y := 2; y < 4; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("Get(%d, %d) = %q, expected '#'", x, y, s.Get(x, y))
			}
		}
	}
	if s.Get(5, 2) != ' ' {
		t.Error("DrawRect should not paint outside the rect")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.Fill('.')

	expected := "...\n..."
	if got := s.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColor(1, 1, 'X', ColorRed)
	s.Resize(10, 3)

	if s.Width() != 10 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 10x3", s.Width(), s.Height())
	}
	if c := s.GetCell(1, 1); c.Rune != 'X' || c.Color != ColorRed {
		t.Errorf("Resize should preserve content, got %+v", c)
	}
	if !strings.HasPrefix(s.Row(2), "          ") {
		t.Errorf("new area should be blank, got %q", s.Row(2))
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex      string
		expected Color
	}{
		{"#2ecc40", ColorBrightGreen},
		{"#e74c3c", ColorBrightRed},
		{"#3498db", ColorBrightBlue},
		{"#f1c40f", ColorYellow},
		{"#e67e22", ColorOrange},
		{"#7f8c8d", ColorGray},
		{"nope", ColorDefault},
		{"#zzzzzz", ColorDefault},
	}

	for _, tt := range tests {
		if got := ColorFromHex(tt.hex); got != tt.expected {
			t.Errorf("ColorFromHex(%q) = %d, expected %d", tt.hex, got, tt.expected)
		}
	}
}

func TestInputFrameDirection(t *testing.T) {
	f := NewInputFrame()
	if f.Direction() != ActionNone {
		t.Errorf("empty frame Direction() = %v, expected None", f.Direction())
	}

	f.Set(ActionPause)
	f.Set(ActionUp)
	f.Set(ActionLeft)
	if f.Direction() != ActionLeft {
		t.Errorf("Direction() = %v, expected Left (last key wins)", f.Direction())
	}

	clone := f.Clone()
	f.Clear()
	if f.Has(ActionPause) || f.Direction() != ActionNone {
		t.Error("Clear should drop all actions")
	}
	if clone.Direction() != ActionLeft || !clone.Has(ActionPause) {
		t.Error("Clone should be independent of its source")
	}
}
