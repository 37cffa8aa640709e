package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/dlexport"
)

// Document is a serialized export. It stays valid after a failed write.
type Document struct {
	// Backend is the name of the serializer that produced the document.
	Backend string

	// Path is the configured output path. WriteFile uses it when called
	// with an empty path.
	Path string

	// Stats describes the reconstructed scene.
	Stats dlexport.Stats

	// Preview holds the PNG preview, or nil when none was requested or
	// it could not be rendered.
	Preview []byte

	data []byte
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	return d.data
}

// Len returns the document size in bytes.
func (d *Document) Len() int {
	return len(d.data)
}

// WriteTo writes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// WriteFile writes the document to path, or to d.Path when path is empty.
// The file is replaced only once the full document has been written.
func (d *Document) WriteFile(path string) error {
	if path == "" {
		path = d.Path
	}
	if path == "" {
		return ErrNoOutput
	}
	if err := writeFile(path, d.data); err != nil {
		return err
	}
	dlexport.Logger().Info("export: document written",
		"path", path, "backend", d.Backend, "bytes", len(d.data))
	return nil
}

// WritePreview writes the PNG preview to path.
func (d *Document) WritePreview(path string) error {
	if d.Preview == nil {
		return fmt.Errorf("export: no preview rendered")
	}
	if err := writeFile(path, d.Preview); err != nil {
		return err
	}
	dlexport.Logger().Info("export: preview written", "path", path, "bytes", len(d.Preview))
	return nil
}

// writeFile writes data to a temporary file next to path and renames it
// into place.
func writeFile(path string, data []byte) error {
	path = filepath.Clean(path)
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
