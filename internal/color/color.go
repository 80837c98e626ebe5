// Package color provides the gamut and transfer-function math used to map
// authored triangle colors into the space the presentation surface expects.
package color

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/f32"
)

// Gamut identifies a set of RGB primaries.
type Gamut uint8

const (
	// GamutSRGB is the standard sRGB / Rec.709 gamut.
	GamutSRGB Gamut = iota
	// GamutDisplayP3 is the wide Display P3 gamut (DCI-P3 primaries, D65 white).
	GamutDisplayP3
)

// String returns the config name of the gamut.
func (g Gamut) String() string {
	switch g {
	case GamutSRGB:
		return "srgb"
	case GamutDisplayP3:
		return "display-p3"
	default:
		return fmt.Sprintf("Gamut(%d)", uint8(g))
	}
}

// ParseGamut parses a gamut name as written in configuration files.
// Matching is case-insensitive; "p3" is accepted as a short form.
func ParseGamut(s string) (Gamut, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srgb", "":
		return GamutSRGB, nil
	case "display-p3", "displayp3", "p3":
		return GamutDisplayP3, nil
	}
	return 0, fmt.Errorf("color: unknown gamut %q", s)
}

// TransferMode selects who applies the output gamma encoding.
type TransferMode uint8

const (
	// SurfaceEncodesGamma means the presentation surface has an sRGB
	// format and encodes on write. Converted colors stay linear.
	SurfaceEncodesGamma TransferMode = iota
	// RendererEncodesGamma means the surface stores values verbatim, so
	// the converter gamma-encodes after the gamut remap.
	RendererEncodesGamma
)

// String returns the config name of the mode.
func (m TransferMode) String() string {
	switch m {
	case SurfaceEncodesGamma:
		return "surface"
	case RendererEncodesGamma:
		return "renderer"
	default:
		return fmt.Sprintf("TransferMode(%d)", uint8(m))
	}
}

// ParseTransferMode parses "surface" or "renderer".
func ParseTransferMode(s string) (TransferMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "surface", "":
		return SurfaceEncodesGamma, nil
	case "renderer":
		return RendererEncodesGamma, nil
	}
	return 0, fmt.Errorf("color: unknown transfer mode %q", s)
}

// Primaries of the demo palette in the authoring gamut.
var (
	Red   = f32.Vec3{1, 0, 0}
	Green = f32.Vec3{0, 1, 0}
	Blue  = f32.Vec3{0, 0, 1}
)
