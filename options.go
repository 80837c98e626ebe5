package hellotriangle

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/internal/color"
	"github.com/gogpu/hellotriangle/internal/geometry"
)

// Option configures a Renderer during Initialize.
//
// Example:
//
//	r, err := hellotriangle.Initialize(handle,
//	    hellotriangle.WithTransferMode(hellotriangle.RendererEncodesGamma),
//	    hellotriangle.WithPadding(32),
//	)
type Option func(*options)

// options holds the construction-time configuration.
type options struct {
	sourceGamut   color.Gamut
	targetGamut   color.Gamut
	transfer      color.TransferMode
	padding       float32
	backends      []gputypes.Backend
	surfaceFormat gputypes.TextureFormat
	presentMode   gputypes.PresentMode
	shaderSource  string
	clearColor    gputypes.Color
}

// defaultOptions returns the default renderer options: Display P3 colors
// shown on an sRGB surface that encodes gamma itself.
func defaultOptions() options {
	return options{
		sourceGamut:   color.GamutDisplayP3,
		targetGamut:   color.GamutSRGB,
		transfer:      color.SurfaceEncodesGamma,
		padding:       geometry.DefaultPadding,
		backends:      nil, // probe in gpu.DefaultBackendOrder
		surfaceFormat: gputypes.TextureFormatUndefined,
		presentMode:   gputypes.PresentModeFifo,
		clearColor:    gputypes.Color{R: 0, G: 0, B: 0, A: 1},
	}
}

// Gamut and TransferMode are re-exported so hosts need not import
// internal packages.
type (
	Gamut        = color.Gamut
	TransferMode = color.TransferMode
)

// Supported gamuts and transfer modes.
const (
	GamutSRGB      = color.GamutSRGB
	GamutDisplayP3 = color.GamutDisplayP3

	SurfaceEncodesGamma  = color.SurfaceEncodesGamma
	RendererEncodesGamma = color.RendererEncodesGamma
)

// WithSourceGamut sets the gamut the triangle's colors are authored in.
func WithSourceGamut(g Gamut) Option {
	return func(o *options) {
		o.sourceGamut = g
	}
}

// WithTargetGamut sets the gamut of the output surface.
func WithTargetGamut(g Gamut) Option {
	return func(o *options) {
		o.targetGamut = g
	}
}

// WithTransferMode selects who applies the sRGB transfer curve.
// With SurfaceEncodesGamma the surface format should be an sRGB format;
// with RendererEncodesGamma it should be a linear one.
func WithTransferMode(m TransferMode) Option {
	return func(o *options) {
		o.transfer = m
	}
}

// WithPadding sets the margin in pixels between the triangle and the
// viewport edges. Negative values are treated as zero.
func WithPadding(px float32) Option {
	return func(o *options) {
		if px < 0 {
			px = 0
		}
		o.padding = px
	}
}

// WithBackend restricts device bring-up to the given HAL backends, tried
// in order. It has no effect when the host supplies a device.
func WithBackend(backends ...gputypes.Backend) Option {
	return func(o *options) {
		o.backends = append([]gputypes.Backend(nil), backends...)
	}
}

// WithSurfaceFormat forces the color attachment format.
func WithSurfaceFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.surfaceFormat = f
	}
}

// WithPresentMode sets the surface present mode. The default is FIFO.
func WithPresentMode(m gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithShaderSource replaces the embedded WGSL program. The program must
// provide vs_main and fs_main with the embedded program's interface.
func WithShaderSource(wgsl string) Option {
	return func(o *options) {
		o.shaderSource = wgsl
	}
}

// WithClearColor sets the color the surface is cleared to each frame.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// colorFormat picks the color attachment format: an explicit option,
// then the host's preference, then a default matching the transfer mode.
func (o *options) colorFormat(hostFormat gputypes.TextureFormat) gputypes.TextureFormat {
	if o.surfaceFormat != gputypes.TextureFormatUndefined {
		return o.surfaceFormat
	}
	if hostFormat != gputypes.TextureFormatUndefined {
		return hostFormat
	}
	if o.transfer == color.RendererEncodesGamma {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return gputypes.TextureFormatBGRA8UnormSrgb
}
