package dlexport

import (
	"math"
	"slices"
)

// Run joining thresholds, in units of the previous glyph's advance.
const (
	minAdvanceRatio   = 0.5
	maxAdvanceRatio   = 1.5
	spaceAdvanceRatio = 1.2
)

// JoinRuns merges adjacent glyph polygons into multi-character text runs.
//
// Polygons are visited left to right and each glyph is compared with the last
// polygon emitted so far. The two are joined when the distance between their
// anchors is between half and one and a half advances of the previous glyph,
// they share a baseline (within half the font size), and font size, color,
// alpha and orientation match. A gap of more than 1.2 advances is read as a
// space. Non-text polygons pass through unchanged and interrupt runs.
//
// polys and their payloads are left untouched: a joined run gets a fresh
// TextRun and vertex slice.
func JoinRuns(polys []Polygon) []Polygon {
	out := make([]Polygon, 0, len(polys))

	for _, p := range polys {
		run, ok := p.Text()
		if !ok || len(out) == 0 {
			out = append(out, p)
			continue
		}

		pp := &out[len(out)-1]
		prev, ok := pp.Text()
		if !ok || prev.Text == "" {
			out = append(out, p)
			continue
		}

		ratio, ok := advanceRatio(prev, run)
		if !ok || pp.Color != p.Color || pp.Alpha != p.Alpha {
			out = append(out, p)
			continue
		}

		text := run.Text
		if ratio > spaceAdvanceRatio {
			text = " " + text
		}

		joined := *prev
		joined.Text += text
		joined.Advance = run.Advance
		joined.LastCharX = run.LastCharX
		joined.LastCharY = run.LastCharY
		pp.Payload = &joined
		pp.Vertices = append(slices.Clip(pp.Vertices), p.Vertices...)
	}
	return out
}

// advanceRatio measures how far next sits from prev along the reading
// direction, in units of prev's advance. ok is false when the glyphs cannot be
// part of the same run: different size or orientation, off baseline, or too
// close or too far apart. A zero advance yields no join.
func advanceRatio(prev, next *TextRun) (ratio float64, ok bool) {
	if prev.FontSize != next.FontSize || prev.Vertical != next.Vertical {
		return 0, false
	}

	var across float64
	if next.Vertical {
		ratio = (prev.LastCharY - next.LastCharY) / prev.Advance
		across = next.LastCharX - prev.LastCharX
	} else {
		ratio = (next.LastCharX - prev.LastCharX) / prev.Advance
		across = next.LastCharY - prev.LastCharY
	}

	if math.Abs(across) >= next.FontSize/2 {
		return ratio, false
	}
	return ratio, ratio > minAdvanceRatio && ratio < maxAdvanceRatio
}
