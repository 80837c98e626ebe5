package color

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGamut(t *testing.T) {
	cases := map[string]Gamut{
		"srgb":       GamutSRGB,
		"SRGB":       GamutSRGB,
		"":           GamutSRGB,
		"display-p3": GamutDisplayP3,
		"DisplayP3":  GamutDisplayP3,
		" p3 ":       GamutDisplayP3,
	}
	for in, want := range cases {
		got, err := ParseGamut(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseGamut("adobe-rgb")
	assert.ErrorContains(t, err, "adobe-rgb")
}

func TestParseTransferMode(t *testing.T) {
	m, err := ParseTransferMode("renderer")
	require.NoError(t, err)
	assert.Equal(t, RendererEncodesGamma, m)

	m, err = ParseTransferMode("Surface")
	require.NoError(t, err)
	assert.Equal(t, SurfaceEncodesGamma, m)

	_, err = ParseTransferMode("both")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	for _, g := range []Gamut{GamutSRGB, GamutDisplayP3} {
		back, err := ParseGamut(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, back)
	}
	for _, m := range []TransferMode{SurfaceEncodesGamma, RendererEncodesGamma} {
		back, err := ParseTransferMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
	assert.Equal(t, "Gamut(9)", Gamut(9).String())
	assert.Equal(t, "TransferMode(7)", TransferMode(7).String())
}

// TestTransferMatchesColorful compares the float32 curves with go-colorful's
// float64 reference implementation over the unit range.
func TestTransferMatchesColorful(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000

		wantLin, _, _ := colorful.Color{R: v, G: v, B: v}.LinearRgb()
		assert.InDelta(t, wantLin, float64(GammaDecode(float32(v))), 1e-6, "decode %v", v)

		wantEnc := colorful.LinearRgb(v, v, v).R
		assert.InDelta(t, wantEnc, float64(GammaEncode(float32(v))), 1e-6, "encode %v", v)
	}
}
