package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/hellotriangle/internal/color"
	"github.com/gogpu/hellotriangle/internal/geometry"
	"github.com/gogpu/hellotriangle/internal/gpu/gputest"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestRenderer wires a FrameRenderer over recording doubles.
func newTestRenderer(t *testing.T, rig *gputest.Rig) (*FrameRenderer, *SubmissionChannel) {
	t.Helper()
	shader, err := LoadShader(rig.Device, "")
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	pc, err := BuildPipeline(rig.Device, shader, gputypes.TextureFormatBGRA8UnormSrgb)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	t.Cleanup(pc.Destroy)

	ch, err := OpenSubmissionChannel(rig.Device, rig.Queue)
	if err != nil {
		t.Fatalf("OpenSubmissionChannel: %v", err)
	}
	t.Cleanup(ch.Close)

	b := &Binding{Device: rig.Device, Queue: rig.Queue, Surface: rig.Surface}
	return NewFrameRenderer(b, pc, ch, FrameOptions{}), ch
}

func testFrame(w, h uint32) *Frame {
	palette := geometry.NewPalette(color.GamutDisplayP3, color.GamutSRGB, color.SurfaceEncodesGamma)
	return NewFrame(geometry.ViewportSize{Width: w, Height: h}, geometry.DefaultPadding, palette)
}
