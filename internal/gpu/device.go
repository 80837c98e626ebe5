package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Sentinel errors for device resolution.
var (
	// ErrNoBackend is returned when none of the requested HAL backends is
	// registered in this binary.
	ErrNoBackend = errors.New("gpu: no usable backend registered")

	// ErrNoAdapter is returned when a backend enumerates no adapters for
	// the surface.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNoHALDevice is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoHALDevice = errors.New("gpu: provider does not expose HAL device")

	// ErrNoSurface is returned when a borrowed device comes without a surface.
	ErrNoSurface = errors.New("gpu: no presentation surface")
)

// DefaultBackendOrder is the probe order used when the host does not ask
// for a specific backend.
var DefaultBackendOrder = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// Binding is a logical device and queue tied to one presentation surface.
//
// A binding created by OpenDevice owns every handle and releases them in
// Destroy. A binding created by BorrowDevice only references the host's
// handles and Destroy leaves them alone.
type Binding struct {
	Instance hal.Instance
	Surface  hal.Surface
	Device   hal.Device
	Queue    hal.Queue

	// Adapter describes the GPU the device was opened on.
	Adapter gputypes.AdapterInfo

	// SurfaceFormat is the host's preferred surface format, or
	// TextureFormatUndefined when the host did not say.
	SurfaceFormat gputypes.TextureFormat

	owned bool
}

// Owned reports whether Destroy releases the device.
func (b *Binding) Owned() bool { return b.owned }

// OpenDevice brings up a device for the native surface identified by
// display and window. The first registered backend in order is used.
func OpenDevice(display, window uintptr, order []gputypes.Backend) (*Binding, error) {
	if len(order) == 0 {
		order = DefaultBackendOrder
	}

	var backend hal.Backend
	for _, variant := range order {
		if b, ok := hal.GetBackend(variant); ok {
			backend = b
			break
		}
	}
	if backend == nil {
		return nil, fmt.Errorf("%w (tried %v)", ErrNoBackend, order)
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create %s instance: %w", backend.Variant(), err)
	}

	surface, err := instance.CreateSurface(display, window)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("create surface: %w", err)
	}

	adapters := instance.EnumerateAdapters(surface)
	if len(adapters) == 0 {
		surface.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("%s: %w", backend.Variant(), ErrNoAdapter)
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		surface.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	if openDev.Device == nil || openDev.Queue == nil {
		surface.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("open device: adapter %q returned no device", selected.Info.Name)
	}

	slogger().Info("gpu: adapter selected",
		"name", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"backend", backend.Variant())

	return &Binding{
		Instance: instance,
		Surface:  surface,
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		Adapter:  selected.Info,
		owned:    true,
	}, nil
}

// selectAdapter prefers a discrete or integrated GPU and falls back to
// the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			return &adapters[i]
		}
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// BorrowDevice wraps a host-owned device. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func BorrowDevice(provider gpucontext.DeviceProvider, surface hal.Surface) (*Binding, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, ErrNoHALDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHALDevice, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHALDevice, hp.HalQueue())
	}
	if surface == nil {
		return nil, ErrNoSurface
	}

	info := provider.AdapterInfo()
	slogger().Info("gpu: using host device", "name", info.Name, "type", info.Type)

	return &Binding{
		Surface:       surface,
		Device:        device,
		Queue:         queue,
		Adapter:       gputypes.AdapterInfo{Name: info.Name, DeviceType: adapterDeviceType(info.Type)},
		SurfaceFormat: provider.SurfaceFormat(),
	}, nil
}

func adapterDeviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}

// Destroy releases owned handles in reverse creation order. Borrowed
// bindings are left untouched. The surface must already be unconfigured.
// Safe to call more than once.
func (b *Binding) Destroy() {
	if !b.owned {
		return
	}
	if b.Surface != nil {
		b.Surface.Destroy()
		b.Surface = nil
	}
	if b.Device != nil {
		b.Device.Destroy()
		b.Device = nil
		b.Queue = nil
	}
	if b.Instance != nil {
		b.Instance.Destroy()
		b.Instance = nil
	}
}
