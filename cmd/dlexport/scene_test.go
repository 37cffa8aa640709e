package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/export"
	iimage "github.com/gogpu/dlexport/internal/image"
)

const testScene = `
width: 300
height: 200
fontSizes: [20]
items:
  - {type: rect, rect: [0, 0, 300, 200], color: "#101820"}
  - {type: rect, rect: [10, 10, 60, 40], radius: 6, color: "#ff000080"}
  - {type: polygon, points: [[100, 10], [140, 10], [120, 40]], color: "#00ff00"}
  - {type: text, at: [10, 60], text: "Hello", size: 20}
  - {type: text, at: [280, 190], text: "up", vertical: true}
  - type: clip
    rect: [0, 100, 150, 200]
    items:
      - {type: line, points: [[0, 100], [150, 200], [150, 100]], thickness: 2, color: "#ff8000"}
      - {type: image, image: dot.png, rect: [20, 120, 60, 160]}
`

func writeScene(t *testing.T, scene string) string {
	t.Helper()
	dir := t.TempDir()
	if err := iimage.SavePNG(filepath.Join(dir, "dot.png"), iimage.Placeholder()); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(scene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"empty", ""},
		{"no size", "items: []\n"},
		{"unknown key", "width: 1\nheight: 1\ncolour: red\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.scene)); err == nil {
				t.Errorf("ParseScene(%q) succeeded", tt.scene)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{"unknown type", "{type: circle}", "unknown item type"},
		{"bad rect", "{type: rect, rect: [1, 2]}", "rect needs"},
		{"bad color", "{type: rect, rect: [0, 0, 1, 1], color: red}", "invalid hex color"},
		{"short polygon", "{type: polygon, points: [[0, 0], [1, 1]]}", "at least 3"},
		{"missing image", "{type: image, image: nope.png, rect: [0, 0, 1, 1]}", "load texture"},
		{"plain data URI", "{type: image, image: \"data:image/png,abc\", rect: [0, 0, 1, 1]}", "base64"},
		{"bad base64", "{type: image, image: \"data:image/png;base64,!!\", rect: [0, 0, 1, 1]}", "image data URI"},
		{"inline garbage", "{type: image, image: \"data:image/png;base64,bm9wZQ==\", rect: [0, 0, 1, 1]}", "load texture"},
		{"unknown font size", "{type: text, at: [0, 0], text: x, size: 99}", "font size not in atlas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadScene(writeScene(t, "width: 10\nheight: 10\nitems:\n  - "+tt.item+"\n"))
			if err != nil {
				t.Fatalf("LoadScene() error = %v", err)
			}
			_, _, _, err = s.Build()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	s, err := LoadScene(writeScene(t, testScene))
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	dl, atlas, textures, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	state := dlexport.Vectorize(dl, atlas, textures)
	var texts []string
	for _, g := range state.Groups {
		for i := range g {
			if r, ok := g[i].Text(); ok {
				texts = append(texts, r.Text)
			}
		}
	}
	if strings.Join(texts, "|") != "Hello|up" {
		t.Errorf("text runs = %q, want Hello and up", texts)
	}
	if st := state.Stats(); st.Images != 1 || st.Placeholders != 0 {
		t.Errorf("Stats() = %+v, want one loaded image", st)
	}
}

func TestRun(t *testing.T) {
	path := writeScene(t, testScene)
	dir := filepath.Dir(path)

	cfg := export.DefaultConfig()
	cfg.Output = filepath.Join(dir, "out.svg")
	cfg.Preview = filepath.Join(dir, "out.png")

	doc, err := run(path, cfg)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if doc.Backend != "svg" || doc.Stats.Runs != 2 {
		t.Errorf("document = %s with %+v", doc.Backend, doc.Stats)
	}
	for _, p := range []string{cfg.Output, cfg.Preview} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestBuildInlineImage(t *testing.T) {
	scene := "width: 10\nheight: 10\nitems:\n  - {type: image, rect: [0, 0, 4, 4], image: \"" +
		iimage.PlaceholderDataURI() + "\"}\n"
	s, err := ParseScene([]byte(scene))
	if err != nil {
		t.Fatalf("ParseScene() error = %v", err)
	}
	dl, atlas, textures, err := s.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if textures.Len() != 1 {
		t.Errorf("textures.Len() = %d, want 1", textures.Len())
	}
	if st := dlexport.Vectorize(dl, atlas, textures).Stats(); st.Images != 1 || st.Placeholders != 0 {
		t.Errorf("Stats() = %+v, want one loaded image", st)
	}
}
