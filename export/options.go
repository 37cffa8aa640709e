package export

import (
	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/recording"
)

// Option configures an Exporter during creation.
//
// Example:
//
//	exp := export.New(
//	    export.WithAtlas(atlas),
//	    export.WithOutput("figure.svg"),
//	    export.WithPreview("figure.png"),
//	)
type Option func(*Exporter)

// WithConfig replaces the whole configuration. Options applied after it
// override single fields.
func WithConfig(cfg Config) Option {
	return func(e *Exporter) {
		e.cfg = cfg
	}
}

// WithAtlas sets the font atlas used to recognize text.
// Without an atlas every command is treated as image-backed.
func WithAtlas(atlas dlexport.FontAtlas) Option {
	return func(e *Exporter) {
		e.atlas = atlas
	}
}

// WithTextures sets where non-atlas textures are fetched from.
func WithTextures(textures dlexport.TextureSource) Option {
	return func(e *Exporter) {
		e.textures = textures
	}
}

// WithOutput sets the document path.
func WithOutput(path string) Option {
	return func(e *Exporter) {
		e.cfg.Output = path
	}
}

// WithBackend selects a registered serializer by name.
func WithBackend(name string) Option {
	return func(e *Exporter) {
		e.cfg.Backend = name
	}
}

// WithTextStyle sets the text styling handed to backends.
func WithTextStyle(style recording.TextStyle) Option {
	return func(e *Exporter) {
		e.cfg.FontFamily = style.FontFamily
		e.cfg.SizeScale = style.SizeScale
		e.cfg.BaselineOffset = style.BaselineOffset
	}
}

// WithPreview enables a PNG preview written next to the document.
func WithPreview(path string) Option {
	return func(e *Exporter) {
		e.cfg.Preview = path
	}
}

// WithCache shares an encoded texture cache between exporters.
func WithCache(c *recording.URICache) Option {
	return func(e *Exporter) {
		e.uris = c
	}
}
