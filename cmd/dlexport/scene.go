package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/drawlist"
	icolor "github.com/gogpu/dlexport/internal/color"
	"github.com/gogpu/dlexport/text"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

const defaultTextSize = 13

// Scene is a YAML description of one frame.
//
//	width: 400
//	height: 300
//	fontSizes: [20]
//	items:
//	  - {type: rect, rect: [0, 0, 400, 300], color: "#202020"}
//	  - {type: text, at: [10, 10], text: "Hello", color: "#ffffff"}
//	  - type: clip
//	    rect: [0, 40, 200, 300]
//	    items:
//	      - {type: line, points: [[0, 40], [400, 300]], thickness: 2, color: "#ff8000"}
type Scene struct {
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	FontSizes []float64 `yaml:"fontSizes,omitempty"`
	Items     []Item    `yaml:"items"`

	dir string
}

// Item is one drawing operation. Type selects which fields apply.
type Item struct {
	Type      string       `yaml:"type"`
	Rect      []float64    `yaml:"rect,omitempty"`
	Points    [][2]float64 `yaml:"points,omitempty"`
	At        []float64    `yaml:"at,omitempty"`
	Color     string       `yaml:"color,omitempty"`
	Radius    float64      `yaml:"radius,omitempty"`
	Thickness float64      `yaml:"thickness,omitempty"`
	Text      string       `yaml:"text,omitempty"`
	Size      float64      `yaml:"size,omitempty"`
	Vertical  bool         `yaml:"vertical,omitempty"`
	Image     string       `yaml:"image,omitempty"` // file path or base64 data URI
	Items     []Item       `yaml:"items,omitempty"`
}

// LoadScene reads a scene file. Image paths are resolved relative to it.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// ParseScene decodes a scene. Unknown keys are an error.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene size %vx%v is empty", s.Width, s.Height)
	}
	return &s, nil
}

// Build draws the scene into a draw list.
func (s *Scene) Build() (*drawlist.DrawList, *text.Atlas, *drawlist.Textures, error) {
	atlas, err := text.DefaultAtlas(0, s.FontSizes...)
	if err != nil {
		return nil, nil, nil, err
	}
	b := drawlist.NewBuilder(atlas, s.Width, s.Height)
	textures := drawlist.NewTextures()

	if err := s.draw(b, textures, s.Items); err != nil {
		return nil, nil, nil, err
	}
	return b.DrawList(), atlas, textures, nil
}

func (s *Scene) draw(b *drawlist.Builder, textures *drawlist.Textures, items []Item) error {
	for i, it := range items {
		if err := s.drawItem(b, textures, it); err != nil {
			return fmt.Errorf("item %d (%s): %w", i, it.Type, err)
		}
	}
	return nil
}

func (s *Scene) drawItem(b *drawlist.Builder, textures *drawlist.Textures, it Item) error {
	col, err := parseColor(it.Color)
	if err != nil {
		return err
	}

	switch it.Type {
	case "rect":
		r, err := toRect(it.Rect)
		if err != nil {
			return err
		}
		if it.Radius > 0 {
			b.AddRectFilledRounded(r, it.Radius, col)
		} else {
			b.AddRectFilled(r, col)
		}

	case "polygon":
		if len(it.Points) < 3 {
			return fmt.Errorf("polygon needs at least 3 points, got %d", len(it.Points))
		}
		b.AddConvexPolyFilled(toPoints(it.Points), col)

	case "line":
		if len(it.Points) < 2 {
			return fmt.Errorf("line needs at least 2 points, got %d", len(it.Points))
		}
		thickness := it.Thickness
		if thickness <= 0 {
			thickness = 1
		}
		pts := toPoints(it.Points)
		for i := 1; i < len(pts); i++ {
			b.AddLine(pts[i-1], pts[i], thickness, col)
		}

	case "text":
		at, err := toPoint(it.At)
		if err != nil {
			return err
		}
		size := it.Size
		if size == 0 {
			size = defaultTextSize
		}
		if it.Vertical {
			return b.AddTextVertical(at, size, col, it.Text)
		}
		return b.AddText(at, size, col, it.Text)

	case "image":
		r, err := toRect(it.Rect)
		if err != nil {
			return err
		}
		id, err := s.loadImage(textures, it.Image)
		if err != nil {
			return err
		}
		b.AddImage(id, r, vec.Vec2{}, vec.Vec2{X: 1, Y: 1}, col)

	case "clip":
		r, err := toRect(it.Rect)
		if err != nil {
			return err
		}
		b.PushClipRect(r)
		defer b.PopClipRect()
		return s.draw(b, textures, it.Items)

	default:
		return fmt.Errorf("unknown item type %q", it.Type)
	}
	return nil
}

// loadImage adds the image named by ref to textures. ref is either a
// "data:<type>;base64,<payload>" URI or a path relative to the scene file.
func (s *Scene) loadImage(textures *drawlist.Textures, ref string) (dlexport.TextureID, error) {
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return 0, errors.New("image data URI must be base64 encoded")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return 0, fmt.Errorf("image data URI: %w", err)
		}
		return textures.LoadBytes(data)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	return textures.Load(path)
}

// parseColor reads "#rrggbb" or "#rrggbbaa". Empty means white.
func parseColor(s string) (color.Color, error) {
	if s == "" {
		return color.White, nil
	}
	c, err := icolor.ParseHex(s)
	if err != nil {
		return nil, err
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func toRect(v []float64) (rect.Rect, error) {
	if len(v) != 4 {
		return rect.Rect{}, fmt.Errorf("rect needs [x0, y0, x1, y1], got %v", v)
	}
	return rect.Rect{LLx: v[0], LLy: v[1], URx: v[2], URy: v[3]}, nil
}

func toPoint(v []float64) (vec.Vec2, error) {
	if len(v) != 2 {
		return vec.Vec2{}, fmt.Errorf("point needs [x, y], got %v", v)
	}
	return vec.Vec2{X: v[0], Y: v[1]}, nil
}

func toPoints(v [][2]float64) []vec.Vec2 {
	pts := make([]vec.Vec2, len(v))
	for i, p := range v {
		pts[i] = vec.Vec2{X: p[0], Y: p[1]}
	}
	return pts
}
