// Package gpu drives the HAL of gogpu/wgpu for the triangle renderer.
//
// The package is layered the way the renderer brings itself up:
//
//   - Binding: a device, queue, and surface, either opened from a HAL
//     backend (OpenDevice) or borrowed from a host (BorrowDevice)
//   - LoadShader: naga-validated WGSL shader module
//   - PipelineConfig: the immutable render pipeline for one color format
//   - SubmissionChannel: command encoders in, submissions out, with
//     per-frame objects retired once the queue completes them
//   - FrameRenderer: acquire, record, submit, and present one Frame
//
// Nothing in this package draws unless a Frame is handed to
// FrameRenderer.Render.
package gpu
