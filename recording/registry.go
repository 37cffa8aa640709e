package recording

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// BackendFactory is a function that creates a new backend instance.
// Factories are registered via Register() and called by NewBackend().
type BackendFactory func() Backend

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	extensions = make(map[string]string) // ".svg" -> "svg"
)

// Register registers a backend factory with the given name and the file
// extensions it writes. This function is typically called from init() in
// backend packages, following the database/sql driver pattern:
//
//	func init() {
//	    recording.Register("svg", func() recording.Backend {
//	        return New()
//	    }, ".svg")
//	}
//
// Names and extensions are case-insensitive.
//
// Register panics if:
//   - factory is nil
//   - a backend with the same name is already registered
//   - one of the extensions is already claimed by another backend
func Register(name string, factory BackendFactory, exts ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name = strings.ToLower(name)
	if factory == nil {
		panic("recording: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("recording: Register called twice for " + name)
	}
	for _, ext := range exts {
		ext = normalizeExt(ext)
		if owner, dup := extensions[ext]; dup {
			panic("recording: extension " + ext + " already registered by " + owner)
		}
	}

	backends[name] = factory
	for _, ext := range exts {
		extensions[normalizeExt(ext)] = name
	}
}

// Unregister removes a backend and its extensions from the registry.
// This is primarily useful for testing to clean up between tests.
// If the backend is not registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()

	name = strings.ToLower(name)
	delete(backends, name)
	for ext, owner := range extensions {
		if owner == name {
			delete(extensions, ext)
		}
	}
}

// NewBackend creates a new backend instance by name.
// The name must match a previously registered backend.
//
// Example:
//
//	import _ "github.com/gogpu/dlexport/recording/backends/svg"
//
//	backend, err := recording.NewBackend("svg")
//	if err != nil {
//	    // Handle error - backend not registered
//	}
//
// The error message includes a hint about forgotten imports.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[strings.ToLower(name)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("recording: unknown backend %q (forgotten import?)", name)
	}
	return factory(), nil
}

// MustBackend creates a new backend instance by name, panicking on error.
//
// Example:
//
//	backend := recording.MustBackend("svg")
func MustBackend(name string) Backend {
	b, err := NewBackend(name)
	if err != nil {
		panic(err)
	}
	return b
}

// BackendFor returns the name of the backend registered for the extension
// of path.
func BackendFor(path string) (string, error) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "." {
		return "", fmt.Errorf("recording: no file extension in %q", path)
	}

	registryMu.RLock()
	name, ok := extensions[ext]
	registryMu.RUnlock()

	if !ok {
		return "", fmt.Errorf("recording: no backend for %s files (forgotten import?)", ext)
	}
	return name, nil
}

// Backends returns a sorted list of registered backend names.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[strings.ToLower(name)]
	return ok
}

// Count returns the number of registered backends.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(backends)
}

func normalizeExt(ext string) string {
	return "." + strings.TrimPrefix(strings.ToLower(ext), ".")
}
