package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Entry points of the triangle program.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

//go:embed shaders/triangle.wgsl
var triangleShaderSource string

// ErrEmptyShader is returned when a shader program has no source text.
var ErrEmptyShader = errors.New("gpu: shader source is empty")

// TriangleShaderSource returns the embedded WGSL program.
func TriangleShaderSource() string { return triangleShaderSource }

// ValidateShader checks that src is a complete WGSL program by compiling
// it to SPIR-V. It returns the SPIR-V size in bytes.
func ValidateShader(src string) (int, error) {
	if src == "" {
		return 0, ErrEmptyShader
	}
	spirv, err := naga.Compile(src)
	if err != nil {
		return 0, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirv) == 0 {
		return 0, errors.New("compile shader: empty SPIR-V output")
	}
	return len(spirv), nil
}

// LoadShader validates src and creates a shader module from it.
// An empty src selects the embedded triangle program.
func LoadShader(device hal.Device, src string) (hal.ShaderModule, error) {
	if src == "" {
		src = triangleShaderSource
	}
	size, err := ValidateShader(src)
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "triangle_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	slogger().Debug("gpu: shader module created", "spirv_bytes", size)
	return module, nil
}
