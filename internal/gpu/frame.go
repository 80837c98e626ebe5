package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle/internal/geometry"
)

// Frame is an immutable snapshot of everything a frame draws. A new Frame
// is built on every resize and never modified afterwards.
type Frame struct {
	Size     geometry.ViewportSize
	Vertices []geometry.Vertex

	// VertexBytes and UniformBytes are Vertices and Size in upload layout.
	VertexBytes  []byte
	UniformBytes []byte
}

// NewFrame regenerates the triangle for size and packs it for upload.
func NewFrame(size geometry.ViewportSize, padding float32, palette geometry.Palette) *Frame {
	v := geometry.Regenerate(size, padding, palette)
	return &Frame{
		Size:         size,
		Vertices:     v[:],
		VertexBytes:  geometry.Pack(v[:]),
		UniformBytes: geometry.PackViewport(size),
	}
}

// FrameOptions tune how frames are presented.
type FrameOptions struct {
	ClearColor  gputypes.Color
	PresentMode gputypes.PresentMode
}

// FrameRenderer records and submits one draw of the triangle per call.
// Frames that cannot get a surface texture or fail to record are dropped.
//
// FrameRenderer is not safe for concurrent use.
type FrameRenderer struct {
	device   hal.Device
	queue    hal.Queue
	surface  hal.Surface
	pipeline *PipelineConfig
	channel  *SubmissionChannel
	opts     FrameOptions

	configured       geometry.ViewportSize
	needsReconfigure bool
}

// NewFrameRenderer creates a frame renderer drawing with pipeline through
// channel onto b's surface.
func NewFrameRenderer(b *Binding, pipeline *PipelineConfig, channel *SubmissionChannel, opts FrameOptions) *FrameRenderer {
	if opts.PresentMode == 0 {
		opts.PresentMode = gputypes.PresentModeFifo
	}
	return &FrameRenderer{
		device:   b.Device,
		queue:    b.Queue,
		surface:  b.Surface,
		pipeline: pipeline,
		channel:  channel,
		opts:     opts,
	}
}

// Configure sets up the surface for size. A zero-area size unconfigures
// the surface; the next non-empty frame configures it again.
func (r *FrameRenderer) Configure(size geometry.ViewportSize) error {
	if size.Empty() {
		if !r.configured.Empty() {
			r.surface.Unconfigure(r.device)
			r.configured = geometry.ViewportSize{}
		}
		return nil
	}
	err := r.surface.Configure(r.device, &hal.SurfaceConfiguration{
		Width:       size.Width,
		Height:      size.Height,
		Format:      r.pipeline.ColorFormat,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: r.opts.PresentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		r.needsReconfigure = true
		return fmt.Errorf("configure surface %dx%d: %w", size.Width, size.Height, err)
	}
	r.configured = size
	r.needsReconfigure = false
	slogger().Info("gpu: surface configured",
		"width", size.Width,
		"height", size.Height,
		"format", r.pipeline.ColorFormat,
		"present_mode", r.opts.PresentMode)
	return nil
}

// Render draws frame and presents it. It reports whether a command buffer
// was submitted. A nil or empty frame is a no-op.
func (r *FrameRenderer) Render(frame *Frame) bool {
	if frame == nil || len(frame.Vertices) == 0 || frame.Size.Empty() {
		return false
	}

	r.channel.Reclaim()

	if r.needsReconfigure || r.configured != frame.Size {
		if err := r.Configure(frame.Size); err != nil {
			slogger().Debug("gpu: frame skipped", "reason", "configure", "err", err)
			return false
		}
	}

	acquired, err := r.surface.AcquireTexture(nil)
	if err != nil {
		if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
			r.needsReconfigure = true
		}
		slogger().Debug("gpu: frame skipped", "reason", "acquire", "err", err)
		return false
	}
	if acquired == nil || acquired.Texture == nil {
		slogger().Debug("gpu: frame skipped", "reason", "no drawable")
		return false
	}
	if acquired.Suboptimal {
		r.needsReconfigure = true
	}

	if err := r.record(frame, acquired.Texture); err != nil {
		r.surface.DiscardTexture(acquired.Texture)
		slogger().Debug("gpu: frame skipped", "reason", "record", "err", err)
		return false
	}

	if err := r.queue.Present(r.surface, acquired.Texture, nil); err != nil {
		if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
			r.needsReconfigure = true
		}
		slogger().Warn("gpu: present failed", "err", err)
		return false
	}
	return true
}

// record encodes and submits the draw into tex. On error nothing was
// submitted and every frame object has been released.
func (r *FrameRenderer) record(frame *Frame, tex hal.SurfaceTexture) error {
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "triangle_surface_view",
		Format:          r.pipeline.ColorFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}

	encoder, err := r.channel.NewEncoder("triangle_frame")
	if err != nil {
		r.device.DestroyTextureView(view)
		return err
	}

	res, err := r.upload(frame)
	if err != nil {
		res.destroy(r.device)
		r.device.DestroyTextureView(view)
		encoder.DiscardEncoding()
		encoder.Destroy()
		return err
	}
	res.SurfaceView = view

	r.withRenderPass(encoder, view, func(rp hal.RenderPassEncoder) {
		rp.SetViewport(0, 0, float32(frame.Size.Width), float32(frame.Size.Height), -1, 1)
		rp.SetPipeline(r.pipeline.Pipeline())
		rp.SetBindGroup(0, res.BindGroup, nil)
		rp.SetVertexBuffer(0, res.VertexBuffer, 0)
		rp.Draw(uint32(len(frame.Vertices)), 1, 0, 0)
	})

	if _, err := r.channel.Submit(encoder, res); err != nil {
		res.destroy(r.device)
		return err
	}
	return nil
}

// withRenderPass runs draw inside a render pass on view that clears to
// the configured color. End is always called, even if draw panics.
func (r *FrameRenderer) withRenderPass(encoder hal.CommandEncoder, view hal.TextureView, draw func(hal.RenderPassEncoder)) {
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "triangle_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.ClearColor,
		}},
	})
	defer rp.End()
	draw(rp)
}

// upload creates the frame's vertex buffer, viewport uniform, and bind
// group. On error the partially filled resources are returned for cleanup.
func (r *FrameRenderer) upload(frame *Frame) (FrameResources, error) {
	var res FrameResources

	vb, err := r.createAndUploadBuffer("triangle_vertices", frame.VertexBytes,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}
	res.VertexBuffer = vb

	ub, err := r.createAndUploadBuffer("triangle_viewport", frame.UniformBytes,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return res, err
	}
	res.UniformBuffer = ub

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "triangle_viewport_bind",
		Layout: r.pipeline.BindLayout(),
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(frame.UniformBytes)),
			}},
		},
	})
	if err != nil {
		return res, fmt.Errorf("create viewport bind group: %w", err)
	}
	res.BindGroup = bg
	return res, nil
}

func (r *FrameRenderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// Destroy unconfigures the surface if this renderer configured it.
func (r *FrameRenderer) Destroy() {
	if r.surface != nil && !r.configured.Empty() {
		r.surface.Unconfigure(r.device)
		r.configured = geometry.ViewportSize{}
	}
}
