package export

import "errors"

var (
	// ErrNoOutput is returned when a document has to be written but no
	// output path is configured.
	ErrNoOutput = errors.New("export: no output path")

	// ErrNotWritable is returned when the configured backend cannot write
	// its output to a stream.
	ErrNotWritable = errors.New("export: backend does not produce a document")

	// ErrInvalidConfig is wrapped by configuration validation errors.
	ErrInvalidConfig = errors.New("export: invalid config")
)
