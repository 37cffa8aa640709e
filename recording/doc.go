// Package recording replays reconstructed draw-list scenes to export
// backends.
//
// The vectorizer in the root package turns one frame's draw list into a
// dlexport.DrawListState: one group of polygons per draw command, each
// polygon a plain fill, a text run or an image. This package defines the
// Backend contract serializers implement and drives them with Playback.
//
// # Basic Usage
//
//	import _ "github.com/gogpu/dlexport/recording/backends/svg"
//
//	state := dlexport.Vectorize(dl, atlas, textures)
//
//	backend, err := recording.NewBackend("svg")
//	if err != nil {
//	    return err
//	}
//	if err := recording.Playback(state, backend); err != nil {
//	    return err
//	}
//	backend.(recording.FileBackend).SaveToFile("plot.svg")
//
// # Backend Registration
//
// Backends are registered using the database/sql driver pattern. Import a
// backend package with a blank identifier to register it:
//
//	import (
//	    "github.com/gogpu/dlexport/recording"
//	    _ "github.com/gogpu/dlexport/recording/backends/raster" // "raster", .png
//	    _ "github.com/gogpu/dlexport/recording/backends/svg"    // "svg", .svg
//	)
//
// Backends also claim file extensions, so BackendFor can pick a backend
// from an output path.
//
// # Custom Backends
//
// Implement the [Backend] interface to create custom output formats and
// register them with [Register]:
//
//	func init() {
//	    recording.Register("myformat", func() recording.Backend {
//	        return NewMyBackend()
//	    }, ".my")
//	}
//
// Optional interfaces add output methods: [WriterBackend], [FileBackend]
// and [ImageBackend]. Backends that draw text by font name can implement
// [TextStyler].
//
// # Thread Safety
//
// The registry is safe for concurrent use. Backend instances are not; each
// Playback needs its own instance.
package recording
