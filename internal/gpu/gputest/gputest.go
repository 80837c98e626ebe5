// Package gputest provides HAL test doubles built on the noop backend.
// They record the calls the triangle renderer makes and can be told to
// fail individual operations.
package gputest

import (
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Draw is one recorded Draw call.
type Draw struct {
	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
}

// Viewport is one recorded SetViewport call.
type Viewport struct {
	X, Y, Width, Height, MinDepth, MaxDepth float32
}

// Recorder collects the calls made against the doubles. Events lists
// the ordering-relevant calls by name: "begin_pass", "end_pass",
// "end_encoding", "submit", "present", "discard_texture".
type Recorder struct {
	mu sync.Mutex

	Events     []string
	Draws      []Draw
	Viewports  []Viewport
	Configures []hal.SurfaceConfiguration
	Pipelines  []hal.RenderPipelineDescriptor
	Writes     int

	buffersLive int
	viewsLive   int
	groupsLive  int
}

func (r *Recorder) event(name string) {
	r.mu.Lock()
	r.Events = append(r.Events, name)
	r.mu.Unlock()
}

// Count returns how many times the named event was recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e == name {
			n++
		}
	}
	return n
}

// Snapshot returns copies of the recorded events, draws, and viewports.
func (r *Recorder) Snapshot() ([]string, []Draw, []Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Events...),
		append([]Draw(nil), r.Draws...),
		append([]Viewport(nil), r.Viewports...)
}

// Live returns the number of buffers, texture views, and bind groups
// created and not yet destroyed.
func (r *Recorder) Live() (buffers, views, groups int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffersLive, r.viewsLive, r.groupsLive
}

// Device wraps a noop device.
type Device struct {
	*noop.Device
	Rec *Recorder

	FailShader    error
	FailPipeline  error
	FailEncoder   error
	FailBindGroup error
	FailView      error

	// EncodersCreated counts successful CreateCommandEncoder calls.
	EncodersCreated int
	Destroyed       bool
}

// CreateShaderModule fails with FailShader when set.
func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if d.FailShader != nil {
		return nil, d.FailShader
	}
	return d.Device.CreateShaderModule(desc)
}

// CreateRenderPipeline records desc and fails with FailPipeline when set.
func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.Rec.mu.Lock()
	d.Rec.Pipelines = append(d.Rec.Pipelines, *desc)
	d.Rec.mu.Unlock()
	if d.FailPipeline != nil {
		return nil, d.FailPipeline
	}
	return d.Device.CreateRenderPipeline(desc)
}

// CreateCommandEncoder returns a recording encoder.
func (d *Device) CreateCommandEncoder(_ *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.FailEncoder != nil {
		return nil, d.FailEncoder
	}
	d.EncodersCreated++
	return &Encoder{CommandEncoder: &noop.CommandEncoder{}, rec: d.Rec}, nil
}

// CreateBuffer tracks live buffers.
func (d *Device) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	buf, err := d.Device.CreateBuffer(desc)
	if err == nil {
		d.Rec.mu.Lock()
		d.Rec.buffersLive++
		d.Rec.mu.Unlock()
	}
	return buf, err
}

// DestroyBuffer tracks live buffers.
func (d *Device) DestroyBuffer(buf hal.Buffer) {
	d.Rec.mu.Lock()
	d.Rec.buffersLive--
	d.Rec.mu.Unlock()
}

// CreateTextureView tracks live views and fails with FailView when set.
func (d *Device) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	if d.FailView != nil {
		return nil, d.FailView
	}
	d.Rec.mu.Lock()
	d.Rec.viewsLive++
	d.Rec.mu.Unlock()
	return d.Device.CreateTextureView(tex, desc)
}

// DestroyTextureView tracks live views.
func (d *Device) DestroyTextureView(hal.TextureView) {
	d.Rec.mu.Lock()
	d.Rec.viewsLive--
	d.Rec.mu.Unlock()
}

// CreateBindGroup tracks live bind groups and fails with FailBindGroup.
func (d *Device) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if d.FailBindGroup != nil {
		return nil, d.FailBindGroup
	}
	d.Rec.mu.Lock()
	d.Rec.groupsLive++
	d.Rec.mu.Unlock()
	return d.Device.CreateBindGroup(desc)
}

// DestroyBindGroup tracks live bind groups.
func (d *Device) DestroyBindGroup(hal.BindGroup) {
	d.Rec.mu.Lock()
	d.Rec.groupsLive--
	d.Rec.mu.Unlock()
}

// Destroy marks the device destroyed.
func (d *Device) Destroy() { d.Destroyed = true }

// Encoder wraps a noop command encoder.
type Encoder struct {
	*noop.CommandEncoder
	rec *Recorder
}

// BeginRenderPass returns a recording render pass.
func (e *Encoder) BeginRenderPass(_ *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	e.rec.event("begin_pass")
	return &Pass{RenderPassEncoder: &noop.RenderPassEncoder{}, rec: e.rec}
}

// EndEncoding records the event.
func (e *Encoder) EndEncoding() (hal.CommandBuffer, error) {
	e.rec.event("end_encoding")
	return e.CommandEncoder.EndEncoding()
}

// Pass wraps a noop render pass encoder.
type Pass struct {
	*noop.RenderPassEncoder
	rec *Recorder
}

// SetViewport records the viewport.
func (p *Pass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.rec.mu.Lock()
	p.rec.Viewports = append(p.rec.Viewports, Viewport{x, y, w, h, minDepth, maxDepth})
	p.rec.mu.Unlock()
}

// Draw records the draw.
func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec.mu.Lock()
	p.rec.Draws = append(p.rec.Draws, Draw{vertexCount, instanceCount, firstVertex, firstInstance})
	p.rec.mu.Unlock()
}

// End records the event.
func (p *Pass) End() { p.rec.event("end_pass") }

// Queue wraps a noop queue.
type Queue struct {
	*noop.Queue
	Rec *Recorder

	FailSubmit  error
	FailPresent error

	// Lag holds back PollCompleted by this many submissions.
	Lag uint64
}

// Submit records the event and fails with FailSubmit when set.
func (q *Queue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	if q.FailSubmit != nil {
		return 0, q.FailSubmit
	}
	q.Rec.event("submit")
	return q.Queue.Submit(cmds)
}

// PollCompleted reports completion Lag submissions behind.
func (q *Queue) PollCompleted() uint64 {
	done := q.Queue.PollCompleted()
	if done < q.Lag {
		return 0
	}
	return done - q.Lag
}

// WriteBuffer counts writes.
func (q *Queue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	q.Rec.mu.Lock()
	q.Rec.Writes++
	q.Rec.mu.Unlock()
	return q.Queue.WriteBuffer(buf, offset, data)
}

// Present records the event and fails with FailPresent when set.
func (q *Queue) Present(s hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	if q.FailPresent != nil {
		return q.FailPresent
	}
	q.Rec.event("present")
	return q.Queue.Present(s, tex, damage)
}

// Surface wraps a noop surface.
type Surface struct {
	*noop.Surface
	Rec *Recorder

	// AcquireErr, when set, is returned by every AcquireTexture call.
	AcquireErr   error
	FailConfig   error
	Suboptimal   bool
	Unconfigured int
}

// Configure records cfg and fails with FailConfig when set.
func (s *Surface) Configure(device hal.Device, cfg *hal.SurfaceConfiguration) error {
	if s.FailConfig != nil {
		return s.FailConfig
	}
	s.Rec.mu.Lock()
	s.Rec.Configures = append(s.Rec.Configures, *cfg)
	s.Rec.mu.Unlock()
	return s.Surface.Configure(device, cfg)
}

// Unconfigure counts calls.
func (s *Surface) Unconfigure(device hal.Device) {
	s.Unconfigured++
	s.Surface.Unconfigure(device)
}

// AcquireTexture fails with AcquireErr when set.
func (s *Surface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if s.AcquireErr != nil {
		return nil, s.AcquireErr
	}
	acq, err := s.Surface.AcquireTexture(fence)
	if err == nil && s.Suboptimal {
		acq.Suboptimal = true
	}
	return acq, err
}

// DiscardTexture records the event.
func (s *Surface) DiscardTexture(tex hal.SurfaceTexture) {
	s.Rec.event("discard_texture")
}

// Rig is a device, queue, and surface sharing one Recorder.
type Rig struct {
	Rec     *Recorder
	Device  *Device
	Queue   *Queue
	Surface *Surface
}

// NewRig returns fresh doubles.
func NewRig() *Rig {
	rec := &Recorder{}
	return &Rig{
		Rec:     rec,
		Device:  &Device{Device: &noop.Device{}, Rec: rec},
		Queue:   &Queue{Queue: &noop.Queue{}, Rec: rec},
		Surface: &Surface{Surface: &noop.Surface{}, Rec: rec},
	}
}

// Provider is a gpucontext.DeviceProvider that also exposes its HAL
// handles, the way host frameworks hand a device to a renderer.
type Provider struct {
	HAL    hal.Device
	HALQ   hal.Queue
	Format gputypes.TextureFormat
	Info   gpucontext.AdapterInfo
}

// Provider returns a device provider over r's device and queue.
func (r *Rig) Provider(format gputypes.TextureFormat) *Provider {
	return &Provider{
		HAL:    r.Device,
		HALQ:   r.Queue,
		Format: format,
		Info:   gpucontext.AdapterInfo{Name: "Recording Adapter", Type: gpucontext.AdapterTypeSoftware},
	}
}

func (p *Provider) Device() gpucontext.Device             { return p.HAL }
func (p *Provider) Queue() gpucontext.Queue               { return p.HALQ }
func (p *Provider) SurfaceFormat() gputypes.TextureFormat { return p.Format }
func (p *Provider) Adapter() gpucontext.Adapter           { return nil }
func (p *Provider) AdapterInfo() gpucontext.AdapterInfo   { return p.Info }
func (p *Provider) HalDevice() any                        { return p.HAL }
func (p *Provider) HalQueue() any                         { return p.HALQ }

var _ gpucontext.DeviceProvider = (*Provider)(nil)

// NoAdapterBackend is a HAL backend whose instances enumerate no adapters.
type NoAdapterBackend struct {
	Backend gputypes.Backend
}

// Variant returns the configured backend variant.
func (b NoAdapterBackend) Variant() gputypes.Backend { return b.Backend }

// CreateInstance returns an instance with no adapters.
func (b NoAdapterBackend) CreateInstance(*hal.InstanceDescriptor) (hal.Instance, error) {
	return noAdapterInstance{}, nil
}

type noAdapterInstance struct{}

func (noAdapterInstance) CreateSurface(_, _ uintptr) (hal.Surface, error)    { return &noop.Surface{}, nil }
func (noAdapterInstance) EnumerateAdapters(hal.Surface) []hal.ExposedAdapter { return nil }
func (noAdapterInstance) Destroy()                                         {}
