package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle/internal/geometry"
)

// ErrInvalidColorFormat is returned when a pipeline is requested for a
// format that cannot be a color attachment.
var ErrInvalidColorFormat = errors.New("gpu: invalid color attachment format")

// PipelineConfig is the fixed-function state of the triangle pipeline.
// It is immutable after BuildPipeline and is shared read-only with the
// frame path.
type PipelineConfig struct {
	ColorFormat gputypes.TextureFormat

	// DepthFormat is always TextureFormatUndefined: the triangle has no
	// depth attachment.
	DepthFormat gputypes.TextureFormat

	VertexEntry   string
	FragmentEntry string

	device     hal.Device
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// BuildPipeline creates the bind group layout, pipeline layout, and render
// pipeline for the triangle. The shader module is owned by the returned
// config and destroyed with it. On error every object created so far,
// including shader, is destroyed.
func BuildPipeline(device hal.Device, shader hal.ShaderModule, format gputypes.TextureFormat) (*PipelineConfig, error) {
	if err := checkColorFormat(format); err != nil {
		device.DestroyShaderModule(shader)
		return nil, err
	}

	pc := &PipelineConfig{
		ColorFormat:   format,
		DepthFormat:   gputypes.TextureFormatUndefined,
		VertexEntry:   VertexEntryPoint,
		FragmentEntry: FragmentEntryPoint,
		device:        device,
		shader:        shader,
	}
	if err := pc.create(); err != nil {
		pc.Destroy()
		return nil, err
	}

	slogger().Info("gpu: triangle pipeline built", "format", format)
	return pc, nil
}

func checkColorFormat(format gputypes.TextureFormat) error {
	if format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: undefined", ErrInvalidColorFormat)
	}
	if format.IsDepthStencil() {
		return fmt.Errorf("%w: %s is a depth/stencil format", ErrInvalidColorFormat, format)
	}
	return nil
}

func (pc *PipelineConfig) create() error {
	bindLayout, err := pc.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "triangle_viewport_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create viewport bind group layout: %w", err)
	}
	pc.bindLayout = bindLayout

	pipeLayout, err := pc.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "triangle_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{pc.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create triangle pipeline layout: %w", err)
	}
	pc.pipeLayout = pipeLayout

	pipeline, err := pc.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "triangle_pipeline",
		Layout: pc.pipeLayout,
		Vertex: hal.VertexState{
			Module:     pc.shader,
			EntryPoint: pc.VertexEntry,
			Buffers:    triangleVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     pc.shader,
			EntryPoint: pc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    pc.ColorFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create triangle pipeline: %w", err)
	}
	pc.pipeline = pipeline
	return nil
}

// BindLayout returns the layout of bind group 0 (the viewport uniform).
func (pc *PipelineConfig) BindLayout() hal.BindGroupLayout { return pc.bindLayout }

// Pipeline returns the render pipeline handle.
func (pc *PipelineConfig) Pipeline() hal.RenderPipeline { return pc.pipeline }

// Destroy releases all pipeline objects in reverse creation order.
// Safe to call more than once.
func (pc *PipelineConfig) Destroy() {
	if pc == nil || pc.device == nil {
		return
	}
	if pc.pipeline != nil {
		pc.device.DestroyRenderPipeline(pc.pipeline)
		pc.pipeline = nil
	}
	if pc.pipeLayout != nil {
		pc.device.DestroyPipelineLayout(pc.pipeLayout)
		pc.pipeLayout = nil
	}
	if pc.bindLayout != nil {
		pc.device.DestroyBindGroupLayout(pc.bindLayout)
		pc.bindLayout = nil
	}
	if pc.shader != nil {
		pc.device.DestroyShaderModule(pc.shader)
		pc.shader = nil
	}
}

// triangleVertexLayout returns the vertex buffer layout matching
// geometry.Pack.
func triangleVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: geometry.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},                    // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: geometry.ColorOffset, ShaderLocation: 1}, // color
			},
		},
	}
}
