package geometry

import (
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/hellotriangle/internal/color"
)

func testPalette() Palette {
	return NewPalette(color.GamutSRGB, color.GamutSRGB, color.SurfaceEncodesGamma)
}

func TestRegenerateLayout(t *testing.T) {
	v := Regenerate(ViewportSize{Width: 800, Height: 600}, DefaultPadding, testPalette())

	want := [3]f32.Vec2{
		{-352, -252},
		{0, 252},
		{352, -252},
	}
	for i := range v {
		if v[i].Position != want[i] {
			t.Errorf("vertex %d position = %v, want %v", i, v[i].Position, want[i])
		}
	}

	if v[0].Color != (f32.Vec4{1, 0, 0, 1}) {
		t.Errorf("left color = %v, want red", v[0].Color)
	}
	if v[1].Color != (f32.Vec4{0, 1, 0, 1}) {
		t.Errorf("top color = %v, want green", v[1].Color)
	}
	if v[2].Color != (f32.Vec4{0, 0, 1, 1}) {
		t.Errorf("right color = %v, want blue", v[2].Color)
	}
}

func TestRegenerateSymmetricAndPositive(t *testing.T) {
	tests := []struct {
		name string
		size ViewportSize
	}{
		{"landscape", ViewportSize{Width: 800, Height: 600}},
		{"portrait", ViewportSize{Width: 300, Height: 1200}},
		{"odd", ViewportSize{Width: 101, Height: 97}},
		{"just fits", ViewportSize{Width: 97, Height: 97}},
		{"huge", ViewportSize{Width: 7680, Height: 4320}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Regenerate(tt.size, DefaultPadding, testPalette())
			if v[0].Position[0] != -v[2].Position[0] {
				t.Errorf("left.x = %v, right.x = %v, want mirrored", v[0].Position[0], v[2].Position[0])
			}
			if v[1].Position[0] != 0 {
				t.Errorf("top.x = %v, want 0", v[1].Position[0])
			}
			if v[0].Position[1] != v[2].Position[1] {
				t.Errorf("base not horizontal: %v vs %v", v[0].Position[1], v[2].Position[1])
			}
			if Degenerate(tt.size, DefaultPadding) {
				t.Fatalf("Degenerate(%v) = true, want false", tt.size)
			}
			if a := Area(v); a <= 0 {
				t.Errorf("Area = %v, want > 0", a)
			}
		})
	}
}

// TestRegenerateDegenerate checks that tiny viewports still give three
// vertices instead of failing.
func TestRegenerateDegenerate(t *testing.T) {
	tests := []struct {
		name string
		size ViewportSize
	}{
		{"zero", ViewportSize{}},
		{"exact padding", ViewportSize{Width: 96, Height: 96}},
		{"narrow", ViewportSize{Width: 50, Height: 600}},
		{"short", ViewportSize{Width: 800, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Regenerate(tt.size, DefaultPadding, testPalette())
			if len(v) != 3 {
				t.Fatalf("len = %d, want 3", len(v))
			}
			if !Degenerate(tt.size, DefaultPadding) {
				t.Errorf("Degenerate(%v) = false, want true", tt.size)
			}
			if v[0].Position[0] != -v[2].Position[0] {
				t.Errorf("symmetry lost: %v", v)
			}
		})
	}
}

func TestAreaSignWhenOneExtentCollapses(t *testing.T) {
	v := Regenerate(ViewportSize{Width: 50, Height: 600}, DefaultPadding, testPalette())
	if a := Area(v); a >= 0 {
		t.Errorf("Area = %v, want negative for a crossed triangle", a)
	}
	v = Regenerate(ViewportSize{Width: 96, Height: 600}, DefaultPadding, testPalette())
	if a := Area(v); a != 0 {
		t.Errorf("Area = %v, want 0", a)
	}
}

func TestNewPaletteConvertsPrimaries(t *testing.T) {
	p := NewPalette(color.GamutDisplayP3, color.GamutSRGB, color.SurfaceEncodesGamma)
	if p[0] != color.Convert(color.Red, color.GamutDisplayP3, color.GamutSRGB, color.SurfaceEncodesGamma) {
		t.Errorf("palette[0] = %v, want converted red", p[0])
	}
	if p[0][0] <= 1 {
		t.Errorf("P3 red in sRGB should exceed 1, got %v", p[0][0])
	}
	for i, c := range p {
		if c[3] != 1 {
			t.Errorf("palette[%d] alpha = %v, want 1", i, c[3])
		}
	}
}

func TestViewportSizeEmpty(t *testing.T) {
	if !(ViewportSize{}).Empty() {
		t.Error("zero size should be empty")
	}
	if !(ViewportSize{Width: 10}).Empty() {
		t.Error("zero height should be empty")
	}
	if (ViewportSize{Width: 1, Height: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
}

func TestPack(t *testing.T) {
	v := Regenerate(ViewportSize{Width: 800, Height: 600}, DefaultPadding, testPalette())
	buf := Pack(v[:])
	if len(buf) != 3*VertexStride {
		t.Fatalf("len = %d, want %d", len(buf), 3*VertexStride)
	}

	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
	}
	for i := range v {
		base := i * VertexStride
		if got := readF32(base); got != v[i].Position[0] {
			t.Errorf("vertex %d x = %v, want %v", i, got, v[i].Position[0])
		}
		if got := readF32(base + 4); got != v[i].Position[1] {
			t.Errorf("vertex %d y = %v, want %v", i, got, v[i].Position[1])
		}
		for c := 0; c < 4; c++ {
			if got := readF32(base + ColorOffset + 4*c); got != v[i].Color[c] {
				t.Errorf("vertex %d color[%d] = %v, want %v", i, c, got, v[i].Color[c])
			}
		}
	}
}

func TestPackEmpty(t *testing.T) {
	if buf := Pack(nil); len(buf) != 0 {
		t.Errorf("Pack(nil) len = %d, want 0", len(buf))
	}
}

func TestPackViewport(t *testing.T) {
	buf := PackViewport(ViewportSize{Width: 800, Height: 600})
	if len(buf) != ViewportUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), ViewportUniformSize)
	}
	w := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	h := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	if w != 800 || h != 600 {
		t.Errorf("uniform = (%v, %v), want (800, 600)", w, h)
	}
	for i := 8; i < ViewportUniformSize; i++ {
		if buf[i] != 0 {
			t.Errorf("padding byte %d = %d, want 0", i, buf[i])
		}
	}
}
