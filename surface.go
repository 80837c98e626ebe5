package hellotriangle

import (
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceHandle identifies where the triangle is drawn.
//
// A host that already owns a GPU device sets Provider and Surface; the
// renderer borrows both and never destroys them. Provider must also
// implement HalDevice() any and HalQueue() any.
//
// Otherwise the renderer opens its own device for the native window given
// by Display and Window (HWND/HINSTANCE, NSView, X11 or Wayland handles).
// Zero handles are valid for backends that need no window, such as the
// noop backend.
type SurfaceHandle struct {
	Display uintptr
	Window  uintptr

	Provider gpucontext.DeviceProvider
	Surface  hal.Surface
}

// Size is a drawable size in physical pixels.
type Size struct {
	Width, Height uint32
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool { return s.Width == 0 || s.Height == 0 }

// SizeFromWindow converts a window's logical size to physical pixels.
func SizeFromWindow(w gpucontext.WindowProvider) Size {
	if w == nil {
		return Size{}
	}
	lw, lh := w.Size()
	scale := w.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return Size{
		Width:  physical(lw, scale),
		Height: physical(lh, scale),
	}
}

func physical(logical int, scale float64) uint32 {
	if logical <= 0 {
		return 0
	}
	px := math.Round(float64(logical) * scale)
	if px > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(px)
}
