package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/recording"

	// Serializers the default configuration relies on.
	_ "github.com/gogpu/dlexport/recording/backends/raster"
	_ "github.com/gogpu/dlexport/recording/backends/svg"
)

// previewBackend renders Config.Preview.
const previewBackend = "raster"

// Exporter holds the per-surface export request and the collaborators
// needed to serialize a frame.
type Exporter struct {
	cfg      Config
	atlas    dlexport.FontAtlas
	textures dlexport.TextureSource
	uris     *recording.URICache

	armed   string
	pending bool
	inFrame bool
}

// New creates an Exporter with DefaultConfig and the given options.
func New(opts ...Option) *Exporter {
	e := &Exporter{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.uris == nil {
		e.uris = recording.NewURICache(e.cfg.CacheBudget)
	}
	return e
}

// Config returns the effective configuration.
func (e *Exporter) Config() Config {
	return e.cfg
}

// Request arms an export of surface's next frame. Only one surface is
// armed at a time: a newer request replaces an older one.
func (e *Exporter) Request(surface string) {
	if e.pending && e.armed != surface {
		dlexport.Logger().Info("export: request replaced", "old", e.armed, "new", surface)
	}
	e.armed = surface
	e.pending = true
	e.inFrame = false
	dlexport.Logger().Info("export: armed", "surface", surface)
}

// Cancel disarms any pending request.
func (e *Exporter) Cancel() {
	e.armed = ""
	e.pending = false
	e.inFrame = false
}

// Pending returns the armed surface, if any.
func (e *Exporter) Pending() (string, bool) {
	return e.armed, e.pending
}

// BeginFrame reports whether the frame surface is about to draw is the
// export frame. The host should draw it without anti-aliasing, so that
// edge fringes do not split fills into extra polygons.
func (e *Exporter) BeginFrame(surface string) bool {
	if !e.pending || e.armed != surface {
		return false
	}
	e.inFrame = true
	return true
}

// EndFrame exports dl if surface is armed, writes the document to the
// configured output and disarms. It returns nil and no error for frames
// that are not exported.
//
// The request is consumed even when writing fails. The returned Document
// is complete in that case and WriteFile may be retried.
func (e *Exporter) EndFrame(surface string, dl dlexport.DrawList) (*Document, error) {
	if !e.pending || e.armed != surface {
		return nil, nil
	}
	if !e.inFrame {
		dlexport.Logger().Warn("export: frame ended without BeginFrame, exporting anyway", "surface", surface)
	}
	e.Cancel()

	doc, err := e.Export(dl)
	if err != nil {
		return nil, err
	}
	if err := doc.WriteFile(e.cfg.Output); err != nil {
		return doc, err
	}
	if doc.Preview != nil && e.cfg.Preview != "" {
		if err := doc.WritePreview(e.cfg.Preview); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// Export vectorizes dl and serializes it without writing anything.
func (e *Exporter) Export(dl dlexport.DrawList) (*Document, error) {
	start := time.Now()

	name, err := e.cfg.backendName()
	if err != nil {
		return nil, fmt.Errorf("export: select backend: %w", err)
	}

	state := dlexport.Vectorize(dl, e.atlas, e.textures)
	data, err := e.serialize(name, state)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Backend: name,
		Path:    e.cfg.Output,
		Stats:   state.Stats(),
		data:    data,
	}

	if e.cfg.Preview != "" {
		// A missing preview does not fail the export.
		preview, err := e.serialize(previewBackend, state)
		if err != nil {
			dlexport.Logger().Warn("export: preview not rendered", "err", err)
		} else {
			doc.Preview = preview
		}
	}

	dlexport.Logger().Debug("export: serialized",
		"backend", name,
		"bytes", len(data),
		"elapsed", time.Since(start))
	return doc, nil
}

// serialize plays state back through a fresh backend and collects its
// output.
func (e *Exporter) serialize(name string, state *dlexport.DrawListState) ([]byte, error) {
	backend, err := recording.NewBackend(name)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	w, ok := backend.(recording.WriterBackend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, name)
	}
	if s, ok := backend.(recording.TextStyler); ok {
		s.SetTextStyle(e.cfg.TextStyle())
	}
	if c, ok := backend.(recording.CacheUser); ok {
		c.SetCache(e.uris)
	}

	if err := recording.Playback(state, backend); err != nil {
		return nil, fmt.Errorf("export: %s: %w", name, err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("export: %s output: %w", name, err)
	}
	return buf.Bytes(), nil
}
