package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/dlexport/cache"
	"github.com/gogpu/dlexport/recording"
	"gopkg.in/yaml.v3"
)

// Config holds the export settings that can be loaded from a YAML file.
type Config struct {
	// Output is where EndFrame writes the document.
	Output string `yaml:"output"`

	// Backend names the registered serializer. Empty selects it by the
	// extension of Output.
	Backend string `yaml:"backend,omitempty"`

	// Text styling of serializers that set text with a font of their own.
	FontFamily     string  `yaml:"fontFamily,omitempty"`
	SizeScale      float64 `yaml:"sizeScale,omitempty"`
	BaselineOffset float64 `yaml:"baselineOffset,omitempty"`

	// CacheBudget bounds the bytes of encoded textures kept between
	// exports.
	CacheBudget int `yaml:"cacheBudget,omitempty"`

	// Preview, when set, is the path of a PNG rendering of the export.
	Preview string `yaml:"preview,omitempty"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Output:         "plot.svg",
		FontFamily:     recording.DefaultTextStyle.FontFamily,
		SizeScale:      recording.DefaultTextStyle.SizeScale,
		BaselineOffset: recording.DefaultTextStyle.BaselineOffset,
		CacheBudget:    cache.DefaultBudget,
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep
// their DefaultConfig values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("export: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("export: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML config on top of DefaultConfig and
// validates the result. An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("export: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.SizeScale <= 0 {
		return fmt.Errorf("%w: sizeScale must be positive, got %v", ErrInvalidConfig, c.SizeScale)
	}
	if c.CacheBudget < 0 {
		return fmt.Errorf("%w: cacheBudget must not be negative", ErrInvalidConfig)
	}
	if c.Backend != "" && !recording.IsRegistered(c.Backend) {
		return fmt.Errorf("%w: unknown backend %q (available: %v)", ErrInvalidConfig, c.Backend, recording.Backends())
	}
	return nil
}

// TextStyle returns the text settings in the form backends accept.
func (c Config) TextStyle() recording.TextStyle {
	return recording.TextStyle{
		FontFamily:     c.FontFamily,
		SizeScale:      c.SizeScale,
		BaselineOffset: c.BaselineOffset,
	}
}

// backendName resolves the serializer for the configured output.
func (c Config) backendName() (string, error) {
	if c.Backend != "" {
		return c.Backend, nil
	}
	if c.Output == "" {
		return "svg", nil
	}
	return recording.BackendFor(c.Output)
}
