package hellotriangle

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/hellotriangle/internal/color"
)

// Config is the file form of the renderer options.
//
//	source_gamut = "display-p3"
//	target_gamut = "srgb"
//	transfer = "surface"
//	padding = 48.0
//	backend = "auto"
//	present_mode = "fifo"
//
// Empty fields keep their defaults.
type Config struct {
	SourceGamut string   `toml:"source_gamut"`
	TargetGamut string   `toml:"target_gamut"`
	Transfer    string   `toml:"transfer"`
	Padding     *float32 `toml:"padding"`
	Backend     string   `toml:"backend"`
	PresentMode string   `toml:"present_mode"`
}

// LoadConfig decodes a TOML config. Unknown keys are an error.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("hellotriangle: decode config: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFile reads and decodes the TOML config at path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hellotriangle: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Options converts the config to renderer options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if c.SourceGamut != "" {
		g, err := color.ParseGamut(c.SourceGamut)
		if err != nil {
			return nil, fmt.Errorf("source_gamut: %w", err)
		}
		opts = append(opts, WithSourceGamut(g))
	}
	if c.TargetGamut != "" {
		g, err := color.ParseGamut(c.TargetGamut)
		if err != nil {
			return nil, fmt.Errorf("target_gamut: %w", err)
		}
		opts = append(opts, WithTargetGamut(g))
	}
	if c.Transfer != "" {
		m, err := color.ParseTransferMode(c.Transfer)
		if err != nil {
			return nil, fmt.Errorf("transfer: %w", err)
		}
		opts = append(opts, WithTransferMode(m))
	}
	if c.Padding != nil {
		if *c.Padding < 0 {
			return nil, fmt.Errorf("padding: must not be negative, got %v", *c.Padding)
		}
		opts = append(opts, WithPadding(*c.Padding))
	}
	if c.Backend != "" {
		backends, err := ParseBackend(c.Backend)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		if backends != nil {
			opts = append(opts, WithBackend(backends...))
		}
	}
	if c.PresentMode != "" {
		m, err := ParsePresentMode(c.PresentMode)
		if err != nil {
			return nil, fmt.Errorf("present_mode: %w", err)
		}
		opts = append(opts, WithPresentMode(m))
	}
	return opts, nil
}

// ParseBackend parses a backend name. "auto" returns nil, meaning the
// default probe order.
func ParseBackend(s string) ([]gputypes.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return nil, nil
	case "vulkan":
		return []gputypes.Backend{gputypes.BackendVulkan}, nil
	case "metal":
		return []gputypes.Backend{gputypes.BackendMetal}, nil
	case "dx12":
		return []gputypes.Backend{gputypes.BackendDX12}, nil
	case "gl", "gles", "opengl":
		return []gputypes.Backend{gputypes.BackendGL}, nil
	case "empty", "noop", "software":
		return []gputypes.Backend{gputypes.BackendEmpty}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", s)
}

// ParsePresentMode parses a present mode name.
func ParsePresentMode(s string) (gputypes.PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo", "":
		return gputypes.PresentModeFifo, nil
	case "fifo-relaxed", "fifo_relaxed":
		return gputypes.PresentModeFifoRelaxed, nil
	case "mailbox":
		return gputypes.PresentModeMailbox, nil
	case "immediate":
		return gputypes.PresentModeImmediate, nil
	}
	return 0, fmt.Errorf("unknown present mode %q", s)
}
