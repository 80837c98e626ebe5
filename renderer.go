package hellotriangle

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hellotriangle/internal/color"
	"github.com/gogpu/hellotriangle/internal/geometry"
	"github.com/gogpu/hellotriangle/internal/gpu"
)

// Renderer draws one color-managed triangle per frame onto a surface.
//
// OnResize and RenderFrame may be called from different goroutines. Each
// resize publishes a new immutable frame snapshot; a frame always draws
// the latest complete snapshot.
type Renderer struct {
	opts    options
	palette geometry.Palette

	binding  *gpu.Binding
	pipeline *gpu.PipelineConfig
	channel  *gpu.SubmissionChannel
	frames   *gpu.FrameRenderer

	frame atomic.Pointer[gpu.Frame]

	// mu serializes RenderFrame and Close: a surface hands out one
	// texture at a time.
	mu     sync.Mutex
	closed atomic.Bool

	submitted atomic.Uint64
	skipped   atomic.Uint64
	idle      atomic.Uint64
}

// PipelineInfo describes the render pipeline built by Initialize.
type PipelineInfo struct {
	ColorFormat   gputypes.TextureFormat
	DepthFormat   gputypes.TextureFormat
	VertexEntry   string
	FragmentEntry string
	Adapter       string
}

// FrameStats counts RenderFrame outcomes.
type FrameStats struct {
	// Submitted frames were recorded, submitted, and presented.
	Submitted uint64
	// Skipped frames were dropped because a frame resource was unavailable.
	Skipped uint64
	// Idle frames had nothing to draw (no resize yet, or a zero-area size).
	Idle uint64
}

// Initialize resolves a GPU device, loads the shader program, builds the
// render pipeline, and opens the submission channel, in that order. The
// first failure is returned as an *InitError and everything created so
// far is released.
//
// Nothing is drawn until the first OnResize.
func Initialize(handle SurfaceHandle, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	binding, err := resolveDevice(handle, &o)
	if err != nil {
		return nil, initError(DeviceNotFound, err)
	}

	shader, err := gpu.LoadShader(binding.Device, o.shaderSource)
	if err != nil {
		binding.Destroy()
		return nil, initError(ShaderLibraryUnavailable, err)
	}

	format := o.colorFormat(binding.SurfaceFormat)
	if format.IsSrgb() != (o.transfer == color.SurfaceEncodesGamma) {
		Logger().Warn("hellotriangle: surface format does not match transfer mode",
			"format", format,
			"transfer", o.transfer)
	}

	pipeline, err := gpu.BuildPipeline(binding.Device, shader, format)
	if err != nil {
		binding.Destroy()
		return nil, initError(PipelineConstructionFailed, err)
	}

	channel, err := gpu.OpenSubmissionChannel(binding.Device, binding.Queue)
	if err != nil {
		pipeline.Destroy()
		binding.Destroy()
		return nil, initError(SubmissionChannelUnavailable, err)
	}

	r := &Renderer{
		opts:     o,
		palette:  geometry.NewPalette(o.sourceGamut, o.targetGamut, o.transfer),
		binding:  binding,
		pipeline: pipeline,
		channel:  channel,
		frames: gpu.NewFrameRenderer(binding, pipeline, channel, gpu.FrameOptions{
			ClearColor:  o.clearColor,
			PresentMode: o.presentMode,
		}),
	}

	Logger().Info("hellotriangle: renderer initialized",
		"adapter", binding.Adapter.Name,
		"format", format,
		"source", o.sourceGamut,
		"target", o.targetGamut,
		"transfer", o.transfer)
	return r, nil
}

func resolveDevice(handle SurfaceHandle, o *options) (*gpu.Binding, error) {
	if handle.Provider != nil {
		return gpu.BorrowDevice(handle.Provider, handle.Surface)
	}
	return gpu.OpenDevice(handle.Display, handle.Window, o.backends)
}

// OnResize regenerates the triangle for size and publishes it for the
// next frame. The surface is reconfigured by the next RenderFrame. A
// zero-area size clears the snapshot so frames draw nothing.
func (r *Renderer) OnResize(size Size) {
	if r.closed.Load() {
		return
	}
	if size.Empty() {
		r.frame.Store(nil)
		Logger().Debug("hellotriangle: zero-area resize", "width", size.Width, "height", size.Height)
		return
	}

	vs := geometry.ViewportSize{Width: size.Width, Height: size.Height}
	if geometry.Degenerate(vs, r.opts.padding) {
		Logger().Debug("hellotriangle: padding leaves no room for the triangle",
			"width", size.Width,
			"height", size.Height,
			"padding", r.opts.padding)
	}
	r.frame.Store(gpu.NewFrame(vs, r.opts.padding, r.palette))
}

// RenderFrame draws the latest snapshot. It never fails: a frame whose
// resources are unavailable is dropped and counted in Stats.
func (r *Renderer) RenderFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return
	}
	f := r.frame.Load()
	if f == nil {
		r.idle.Add(1)
		return
	}
	if r.frames.Render(f) {
		r.submitted.Add(1)
	} else {
		r.skipped.Add(1)
	}
}

// Close releases all GPU objects. A device opened by Initialize is
// destroyed; a borrowed one is left to the host. Close is idempotent.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Swap(true) {
		return
	}
	r.frame.Store(nil)

	if r.binding.Owned() || r.channel.Pending() > 0 {
		if err := r.binding.Device.WaitIdle(); err != nil {
			Logger().Warn("hellotriangle: wait idle failed", "err", err)
		}
	}
	r.channel.Close()
	r.frames.Destroy()
	r.pipeline.Destroy()
	r.binding.Destroy()

	Logger().Info("hellotriangle: renderer closed",
		"submitted", r.submitted.Load(),
		"skipped", r.skipped.Load())
}

// Pipeline describes the render pipeline.
func (r *Renderer) Pipeline() PipelineInfo {
	return PipelineInfo{
		ColorFormat:   r.pipeline.ColorFormat,
		DepthFormat:   r.pipeline.DepthFormat,
		VertexEntry:   r.pipeline.VertexEntry,
		FragmentEntry: r.pipeline.FragmentEntry,
		Adapter:       r.binding.Adapter.Name,
	}
}

// Stats returns frame counters. Safe for concurrent use.
func (r *Renderer) Stats() FrameStats {
	return FrameStats{
		Submitted: r.submitted.Load(),
		Skipped:   r.skipped.Load(),
		Idle:      r.idle.Load(),
	}
}
