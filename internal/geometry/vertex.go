// Package geometry computes the triangle's vertices for a viewport and packs
// them into the byte layout the vertex shader reads.
package geometry

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/hellotriangle/internal/color"
)

// DefaultPadding is the distance in pixels kept between the triangle and
// every edge of the viewport.
const DefaultPadding float32 = 48

// Vertex is one triangle corner. Position is in pixels relative to the
// viewport center, +Y up.
type Vertex struct {
	Position f32.Vec2
	Color    f32.Vec4
}

// ViewportSize is the drawable size in physical pixels.
type ViewportSize struct {
	Width, Height uint32
}

// Empty reports whether either dimension is zero.
func (s ViewportSize) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// Palette holds the colors of the left, top, and right corners in the
// order they are emitted.
type Palette [3]f32.Vec4

// NewPalette converts pure red, green, and blue authored in src into dst.
func NewPalette(src, dst color.Gamut, mode color.TransferMode) Palette {
	return Palette{
		color.Convert(color.Red, src, dst, mode),
		color.Convert(color.Green, src, dst, mode),
		color.Convert(color.Blue, src, dst, mode),
	}
}

// Regenerate returns the upward-pointing triangle inscribed in size with
// padding pixels of margin. The order is always left, top, right.
//
// A padding of at least half a dimension yields a crossed or zero-area
// triangle; that is returned as is.
func Regenerate(size ViewportSize, padding float32, palette Palette) [3]Vertex {
	maxX := float32(size.Width)/2 - padding
	minX := -maxX
	maxY := float32(size.Height)/2 - padding
	minY := -maxY

	return [3]Vertex{
		{Position: f32.Vec2{minX, minY}, Color: palette[0]},
		{Position: f32.Vec2{0, maxY}, Color: palette[1]},
		{Position: f32.Vec2{maxX, minY}, Color: palette[2]},
	}
}

// Area returns the signed area of the triangle, positive for the clockwise
// left, top, right winding Regenerate produces for a roomy viewport.
// When only one half-extent collapses the sign flips or the area is zero.
// When both collapse the triangle is mirrored through the origin and the
// area is positive again, so use Degenerate to classify sizes.
func Area(v [3]Vertex) float32 {
	a, b, c := v[0].Position, v[1].Position, v[2].Position
	return ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])) / -2
}

// Degenerate reports whether padding leaves no room for the triangle in
// at least one dimension.
func Degenerate(size ViewportSize, padding float32) bool {
	return float32(size.Width)/2-padding <= 0 || float32(size.Height)/2-padding <= 0
}
