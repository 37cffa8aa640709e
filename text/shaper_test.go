package text

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

func testShaper(t *testing.T) *Shaper {
	t.Helper()

	s, err := NewShaper(goregular.TTF)
	if err != nil {
		t.Fatalf("NewShaper() error = %v", err)
	}
	return s
}

func TestNewShaperErrors(t *testing.T) {
	if _, err := NewShaper(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewShaper(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewShaper([]byte("garbage")); err == nil {
		t.Errorf("NewShaper(garbage) error = nil, want error")
	}
}

func TestShape(t *testing.T) {
	s := testShaper(t)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "A", 1},
		{"word", "Hello", 5},
		{"with space", "Hello World", 11},
		{"latin1", "café", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Shape(tt.text, 13)
			if len(got) != tt.want {
				t.Fatalf("Shape(%q) returned %d placements, want %d", tt.text, len(got), tt.want)
			}
			runes := []rune(tt.text)
			for i, pl := range got {
				if pl.Rune != runes[i] {
					t.Errorf("placement %d rune = %q, want %q", i, pl.Rune, runes[i])
				}
				if pl.Advance <= 0 {
					t.Errorf("placement %d advance = %v, want > 0", i, pl.Advance)
				}
				if i > 0 && pl.X <= got[i-1].X {
					t.Errorf("placement %d X = %v, not after %v", i, pl.X, got[i-1].X)
				}
			}
		})
	}
}

func TestShapeScalesWithSize(t *testing.T) {
	s := testShaper(t)

	small := s.Shape("W", 10)
	large := s.Shape("W", 20)
	if len(small) != 1 || len(large) != 1 {
		t.Fatal("Shape(\"W\") did not return one placement")
	}
	if math.Abs(large[0].Advance-2*small[0].Advance) > 0.1 {
		t.Errorf("advance at 20px = %v, want about twice %v", large[0].Advance, small[0].Advance)
	}
}

func TestShapeConcurrent(t *testing.T) {
	s := testShaper(t)
	want := len(s.Shape("concurrent", 13))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if got := len(s.Shape("concurrent", 13)); got != want {
					t.Errorf("Shape() returned %d placements, want %d", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPlaceClusters(t *testing.T) {
	adv := fixed.I(6)

	t.Run("one glyph per rune", func(t *testing.T) {
		glyphs := []shaping.Glyph{
			{ClusterIndex: 0, Advance: adv},
			{ClusterIndex: 1, Advance: adv},
		}
		got := placeClusters([]rune("ab"), glyphs, di.DirectionLTR)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[1].X != 6 {
			t.Errorf("second X = %v, want 6", got[1].X)
		}
	})

	t.Run("ligature splits advance", func(t *testing.T) {
		glyphs := []shaping.Glyph{
			{ClusterIndex: 0, Advance: fixed.I(10)},
			{ClusterIndex: 2, Advance: adv},
		}
		got := placeClusters([]rune("fix"), glyphs, di.DirectionLTR)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		wantX := []float64{0, 5, 10}
		for i, pl := range got {
			if pl.X != wantX[i] {
				t.Errorf("placement %d X = %v, want %v", i, pl.X, wantX[i])
			}
		}
		if got[1].Advance != 5 {
			t.Errorf("ligature share = %v, want 5", got[1].Advance)
		}
	})

	t.Run("multi-glyph cluster", func(t *testing.T) {
		glyphs := []shaping.Glyph{
			{ClusterIndex: 0, Advance: fixed.I(4)},
			{ClusterIndex: 0, Advance: fixed.I(2)},
			{ClusterIndex: 1, Advance: adv},
		}
		got := placeClusters([]rune("ab"), glyphs, di.DirectionLTR)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[1].X != 6 {
			t.Errorf("second X = %v, want 6", got[1].X)
		}
	})

	t.Run("right to left", func(t *testing.T) {
		glyphs := []shaping.Glyph{
			{ClusterIndex: 1, Advance: adv},
			{ClusterIndex: 0, Advance: adv},
		}
		got := placeClusters([]rune("ab"), glyphs, di.DirectionRTL)
		want := map[rune]float64{'b': 0, 'a': 6}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for _, pl := range got {
			if pl.X != want[pl.Rune] {
				t.Errorf("%q X = %v, want %v", pl.Rune, pl.X, want[pl.Rune])
			}
		}
	})

	t.Run("right to left ligature", func(t *testing.T) {
		glyphs := []shaping.Glyph{
			{ClusterIndex: 2, Advance: adv},
			{ClusterIndex: 0, Advance: fixed.I(10)},
		}
		got := placeClusters([]rune("fix"), glyphs, di.DirectionRTL)
		want := map[rune]float64{'x': 0, 'i': 6, 'f': 11}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for _, pl := range got {
			if pl.X != want[pl.Rune] {
				t.Errorf("%q X = %v, want %v", pl.Rune, pl.X, want[pl.Rune])
			}
		}
	})
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want di.Direction
	}{
		{"latin", "Hello", di.DirectionLTR},
		{"hebrew", "שלום", di.DirectionRTL},
		{"arabic", "مرحبا", di.DirectionRTL},
		{"digits before hebrew", "123 שלום", di.DirectionRTL},
		{"latin before hebrew", "abc שלום", di.DirectionLTR},
		{"digits only", "123", di.DirectionLTR},
		{"empty", "", di.DirectionLTR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Direction([]rune(tt.in)); got != tt.want {
				t.Errorf("Direction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShapeRightToLeft(t *testing.T) {
	s := testShaper(t)
	runes := []rune("שלום")
	got := s.Shape(string(runes), 16)
	if len(got) != len(runes) {
		t.Fatalf("len = %d, want %d", len(got), len(runes))
	}
	first := -1.0
	for _, pl := range got {
		if pl.Rune == runes[0] {
			first = pl.X
		}
	}
	for _, pl := range got {
		if pl.Rune != runes[0] && pl.X >= first {
			t.Errorf("%q X = %v, want left of first rune at %v", pl.Rune, pl.X, first)
		}
	}
}

func TestFontLayout(t *testing.T) {
	a := testAtlas(t, 13)
	f, _ := a.Font(13)

	got := f.Layout("A B")
	if len(got) != 3 {
		t.Fatalf("Layout(\"A B\") returned %d glyphs, want 3", len(got))
	}
	if got[0].Glyph.Codepoint != 'A' || got[2].Glyph.Codepoint != 'B' {
		t.Errorf("Layout(\"A B\") codepoints = %d, %d", got[0].Glyph.Codepoint, got[2].Glyph.Codepoint)
	}

	// Runes outside the atlas are dropped.
	got = f.Layout("A中")
	if len(got) != 1 {
		t.Errorf("Layout with a CJK rune returned %d glyphs, want 1", len(got))
	}
}

func TestFontMeasure(t *testing.T) {
	a := testAtlas(t, 13)
	f, _ := a.Font(13)
	g, _ := f.Glyph('o')

	if got := f.Measure(""); got != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", got)
	}
	if got := f.Measure("oo"); math.Abs(got-2*g.AdvanceX) > 0.5 {
		t.Errorf("Measure(\"oo\") = %v, want about %v", got, 2*g.AdvanceX)
	}
}
