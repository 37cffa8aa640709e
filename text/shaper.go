package text

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Shaper lays out strings with HarfBuzz shaping from go-text/typesetting, so
// pen positions include kerning.
//
// Shaper is safe for concurrent use. It keeps the parsed font.Font, which is
// read-only, and creates a lightweight font.Face per Shape call. HarfbuzzShaper
// instances are pooled since they hold mutable buffers.
type Shaper struct {
	font *font.Font
	pool sync.Pool
}

// Placement is one rune positioned on a line.
type Placement struct {
	Rune rune

	// X is the pen position relative to the start of the line, offsets
	// included. Y is the vertical offset from the baseline.
	X, Y float64

	// Advance is how far the pen moves after this rune.
	Advance float64
}

// NewShaper parses font data for shaping.
func NewShaper(data []byte) (*Shaper, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font for shaping: %w", err)
	}
	return &Shaper{
		font: face.Font,
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// Shape lays out s at the given pixel size in the direction of its first
// strong character (see Direction).
//
// Every rune of s yields exactly one Placement. When the shaper maps several
// runes to one glyph (a ligature), the glyph's advance is split evenly among
// them so each rune can still be drawn from its own atlas entry.
func (s *Shaper) Shape(str string, size float64) []Placement {
	runes := []rune(str)
	if len(runes) == 0 {
		return nil
	}

	dir := Direction(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(s.font),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	return placeClusters(runes, output.Glyphs, dir)
}

// placeClusters assigns every rune to the last glyph of the cluster that
// covers it. X grows along the glyph order, which is visual order: for RTL
// runs the clusters come in decreasing text order.
func placeClusters(runes []rune, glyphs []shaping.Glyph, dir di.Direction) []Placement {
	starts := make([]int, 0, len(glyphs))
	for _, g := range glyphs {
		starts = append(starts, g.TextIndex())
	}
	slices.Sort(starts)
	starts = slices.Compact(starts)

	out := make([]Placement, 0, len(runes))

	var pen float64
	for i, g := range glyphs {
		adv := fixedToFloat64(g.Advance)
		start := g.TextIndex()
		if i+1 < len(glyphs) && glyphs[i+1].TextIndex() == start {
			// Not the last glyph of its cluster.
			pen += adv
			continue
		}

		end := len(runes)
		if k, _ := slices.BinarySearch(starts, start); k+1 < len(starts) {
			end = starts[k+1]
		}
		n := end - start
		if n <= 0 || start < 0 || end > len(runes) {
			pen += adv
			continue
		}

		share := adv / float64(n)
		for k := range n {
			slot := k
			if dir.Progression() == di.TowardTopLeft {
				slot = n - 1 - k
			}
			out = append(out, Placement{
				Rune:    runes[start+k],
				X:       pen + fixedToFloat64(g.XOffset) + float64(slot)*share,
				Y:       fixedToFloat64(g.YOffset),
				Advance: share,
			})
		}
		pen += adv
	}
	return out
}

// Direction returns the direction of the first strongly directional rune:
// right to left for Hebrew and Arabic letters, left to right otherwise.
func Direction(runes []rune) di.Direction {
	for _, r := range runes {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
