// Package hellotriangle draws a single color-managed triangle on a GPU
// surface.
//
// # Overview
//
// The triangle's corners are pure red, green, and blue authored in a
// source gamut (Display P3 by default). They are converted to the target
// gamut (sRGB by default) once, at Initialize, and the geometry is
// rebuilt on every resize so the triangle keeps a fixed pixel padding
// from the viewport edges.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/hellotriangle"
//		_ "github.com/gogpu/wgpu/hal/allbackends"
//	)
//
//	r, err := hellotriangle.Initialize(hellotriangle.SurfaceHandle{
//		Display: display,
//		Window:  window,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	r.OnResize(hellotriangle.Size{Width: 800, Height: 600})
//	for running {
//		r.RenderFrame()
//	}
//
// Hosts that already own a GPU device pass it through
// SurfaceHandle.Provider together with a configured-for-use surface.
// The renderer then never destroys the device.
//
// # Gamma
//
// With SurfaceEncodesGamma the colors stay linear and an sRGB surface
// format applies the transfer curve on store. With RendererEncodesGamma
// the colors are encoded before upload and a linear surface format is
// expected.
//
// # Threading
//
// OnResize and RenderFrame may run on different goroutines. RenderFrame
// and Close are serialized internally.
package hellotriangle

// Version is the current version of the module.
const Version = "0.1.0"
