package color

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// displayP3ToSRGB remaps linear Display P3 to linear sRGB (row major).
var displayP3ToSRGB = f32.Mat3{
	1.2249, -0.2247, 0,
	-0.0420, 1.0419, 0,
	-0.0197, -0.0786, 1.0979,
}

// sRGBToDisplayP3 remaps linear sRGB to linear Display P3 (row major).
var sRGBToDisplayP3 = f32.Mat3{
	0.8225, 0.1774, 0,
	0.0332, 0.9669, 0,
	0.0171, 0.0724, 0.9108,
}

// identity is returned by Matrix for gamut pairs with no remap.
var identity = f32.Mat3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// GammaDecode converts an sRGB-encoded component to linear light (EOTF).
// Formula: if |c| <= 0.04045: c/12.92; else: sign(c)*pow((|c|+0.055)/1.055, 2.4)
// The sign is mirrored so extended-range values survive a round trip.
func GammaDecode(c float32) float32 {
	a := math32.Abs(c)
	switch {
	case a == 0 || a == 1:
		return c
	case a <= 0.04045:
		return c / 12.92
	}
	return math32.Copysign(math32.Pow((a+0.055)/1.055, 2.4), c)
}

// GammaEncode converts a linear component to the sRGB transfer curve (OETF).
// Formula: if |c| <= 0.0031308: c*12.92; else: sign(c)*(1.055*pow(|c|, 1/2.4)-0.055)
func GammaEncode(c float32) float32 {
	a := math32.Abs(c)
	switch {
	case a == 0 || a == 1:
		// 1.055-0.055 is not exactly 1 in float32.
		return c
	case a <= 0.0031308:
		return c * 12.92
	}
	return math32.Copysign(1.055*math32.Pow(a, 1/2.4)-0.055, c)
}

// Matrix returns the linear remap from src primaries to dst primaries.
// Pairs without a known remap, including src == dst, return the identity.
func Matrix(src, dst Gamut) f32.Mat3 {
	switch {
	case src == GamutDisplayP3 && dst == GamutSRGB:
		return displayP3ToSRGB
	case src == GamutSRGB && dst == GamutDisplayP3:
		return sRGBToDisplayP3
	}
	return identity
}

// MulVec3 computes m*v for a row-major matrix.
func MulVec3(m f32.Mat3, v f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Convert maps a color authored in src into dst and appends alpha 1.
//
// When the gamuts differ the channels are decoded to linear light,
// remapped, and, for RendererEncodesGamma, encoded again. With
// SurfaceEncodesGamma the linear remap result is returned because the
// surface applies the curve itself. Equal gamuts pass through untouched.
// Results may leave [0,1] when a color is outside the target gamut.
func Convert(c f32.Vec3, src, dst Gamut, mode TransferMode) f32.Vec4 {
	if src == dst {
		return f32.Vec4{c[0], c[1], c[2], 1}
	}

	lin := f32.Vec3{GammaDecode(c[0]), GammaDecode(c[1]), GammaDecode(c[2])}
	out := MulVec3(Matrix(src, dst), lin)
	if mode == RendererEncodesGamma {
		out = f32.Vec3{GammaEncode(out[0]), GammaEncode(out[1]), GammaEncode(out[2])}
	}
	return f32.Vec4{out[0], out[1], out[2], 1}
}
