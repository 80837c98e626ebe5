package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// ErrNoQueue is returned when a submission channel is opened without a queue.
var ErrNoQueue = errors.New("gpu: no command queue")

// FrameResources are the per-frame objects that must outlive a submission.
type FrameResources struct {
	SurfaceView   hal.TextureView
	VertexBuffer  hal.Buffer
	UniformBuffer hal.Buffer
	BindGroup     hal.BindGroup
}

func (r *FrameResources) destroy(device hal.Device) {
	if r.BindGroup != nil {
		device.DestroyBindGroup(r.BindGroup)
		r.BindGroup = nil
	}
	if r.UniformBuffer != nil {
		device.DestroyBuffer(r.UniformBuffer)
		r.UniformBuffer = nil
	}
	if r.VertexBuffer != nil {
		device.DestroyBuffer(r.VertexBuffer)
		r.VertexBuffer = nil
	}
	if r.SurfaceView != nil {
		device.DestroyTextureView(r.SurfaceView)
		r.SurfaceView = nil
	}
}

// retiredFrame is a submitted frame whose objects wait for the GPU.
type retiredFrame struct {
	index     uint64
	encoder   hal.CommandEncoder
	cmdBuf    hal.CommandBuffer
	resources FrameResources
}

// SubmissionChannel hands out command encoders and submits their command
// buffers in call order. Objects used by a submission are retired and
// released once the queue reports the submission complete.
//
// SubmissionChannel is not safe for concurrent use.
type SubmissionChannel struct {
	device hal.Device
	queue  hal.Queue

	retired []retiredFrame
}

// OpenSubmissionChannel verifies that device can record commands for queue
// by creating and discarding one probe encoder.
func OpenSubmissionChannel(device hal.Device, queue hal.Queue) (*SubmissionChannel, error) {
	if queue == nil {
		return nil, ErrNoQueue
	}
	probe, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "triangle_probe_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create probe encoder: %w", err)
	}
	if probe == nil {
		return nil, errors.New("create probe encoder: device returned nil")
	}
	probe.Destroy()

	return &SubmissionChannel{device: device, queue: queue}, nil
}

// NewEncoder creates a command encoder that is already recording.
func (c *SubmissionChannel) NewEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		encoder.Destroy()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return encoder, nil
}

// Submit finishes encoder and submits its command buffer. On success the
// encoder, command buffer, and res are owned by the channel until the GPU
// is done with them. On failure nothing is retained and the caller still
// owns res.
func (c *SubmissionChannel) Submit(encoder hal.CommandEncoder, res FrameResources) (uint64, error) {
	c.Reclaim()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.Destroy()
		return 0, fmt.Errorf("end encoding: %w", err)
	}
	index, err := c.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		c.device.FreeCommandBuffer(cmdBuf)
		encoder.Destroy()
		return 0, fmt.Errorf("submit: %w", err)
	}

	c.retired = append(c.retired, retiredFrame{
		index:     index,
		encoder:   encoder,
		cmdBuf:    cmdBuf,
		resources: res,
	})
	return index, nil
}

// Reclaim releases retired frames the queue reports as completed and
// returns how many were released.
func (c *SubmissionChannel) Reclaim() int {
	if len(c.retired) == 0 {
		return 0
	}
	done := c.queue.PollCompleted()
	n := 0
	for n < len(c.retired) && c.retired[n].index <= done {
		c.release(&c.retired[n])
		n++
	}
	if n > 0 {
		c.retired = append(c.retired[:0], c.retired[n:]...)
		slogger().Debug("gpu: reclaimed frames", "count", n, "completed", done)
	}
	return n
}

// Pending returns the number of submitted frames not yet reclaimed.
func (c *SubmissionChannel) Pending() int { return len(c.retired) }

// Close releases every retired frame. The caller must ensure the GPU is
// idle or gone.
func (c *SubmissionChannel) Close() {
	for i := range c.retired {
		c.release(&c.retired[i])
	}
	c.retired = nil
}

func (c *SubmissionChannel) release(f *retiredFrame) {
	f.resources.destroy(c.device)
	if f.cmdBuf != nil {
		c.device.FreeCommandBuffer(f.cmdBuf)
		f.cmdBuf = nil
	}
	if f.encoder != nil {
		f.encoder.Destroy()
		f.encoder = nil
	}
}
