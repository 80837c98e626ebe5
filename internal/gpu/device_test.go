package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle/internal/gpu/gputest"
)

func TestOpenDeviceNoop(t *testing.T) {
	b, err := OpenDevice(0, 0, []gputypes.Backend{gputypes.BackendEmpty})
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	defer b.Destroy()

	if !b.Owned() {
		t.Error("binding should own the device")
	}
	if b.Device == nil || b.Queue == nil || b.Surface == nil || b.Instance == nil {
		t.Fatalf("incomplete binding: %+v", b)
	}
	if b.Adapter.Name != "Noop Adapter" {
		t.Errorf("adapter = %q, want Noop Adapter", b.Adapter.Name)
	}
	if b.SurfaceFormat != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat = %v, want undefined", b.SurfaceFormat)
	}
}

func TestOpenDeviceSkipsMissingBackends(t *testing.T) {
	order := []gputypes.Backend{gputypes.Backend(200), gputypes.BackendEmpty}
	b, err := OpenDevice(0, 0, order)
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}
	b.Destroy()
	// Second Destroy must be harmless.
	b.Destroy()
}

func TestOpenDeviceNoBackend(t *testing.T) {
	_, err := OpenDevice(0, 0, []gputypes.Backend{gputypes.Backend(200)})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}

func TestOpenDeviceNoAdapter(t *testing.T) {
	hal.RegisterBackend(gputest.NoAdapterBackend{Backend: gputypes.BackendBrowserWebGPU})

	_, err := OpenDevice(0, 0, []gputypes.Backend{gputypes.BackendBrowserWebGPU})
	if !errors.Is(err, ErrNoAdapter) {
		t.Fatalf("err = %v, want ErrNoAdapter", err)
	}
}

func TestSelectAdapter(t *testing.T) {
	mk := func(types ...gputypes.DeviceType) []hal.ExposedAdapter {
		out := make([]hal.ExposedAdapter, len(types))
		for i, dt := range types {
			out[i].Info = gputypes.AdapterInfo{Name: dt.String(), DeviceType: dt}
		}
		return out
	}

	tests := []struct {
		name     string
		adapters []hal.ExposedAdapter
		want     gputypes.DeviceType
	}{
		{"discrete wins", mk(gputypes.DeviceTypeCPU, gputypes.DeviceTypeIntegratedGPU, gputypes.DeviceTypeDiscreteGPU), gputypes.DeviceTypeDiscreteGPU},
		{"integrated over cpu", mk(gputypes.DeviceTypeCPU, gputypes.DeviceTypeIntegratedGPU), gputypes.DeviceTypeIntegratedGPU},
		{"first otherwise", mk(gputypes.DeviceTypeOther, gputypes.DeviceTypeCPU), gputypes.DeviceTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectAdapter(tt.adapters)
			if got.Info.DeviceType != tt.want {
				t.Errorf("selected %v, want %v", got.Info.DeviceType, tt.want)
			}
		})
	}
}

// plainProvider exposes no HAL handles.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device             { return nil }
func (plainProvider) Queue() gpucontext.Queue               { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (plainProvider) Adapter() gpucontext.Adapter           { return nil }
func (plainProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestBorrowDevice(t *testing.T) {
	rig := gputest.NewRig()

	b, err := BorrowDevice(rig.Provider(gputypes.TextureFormatRGBA8Unorm), rig.Surface)
	if err != nil {
		t.Fatalf("BorrowDevice: %v", err)
	}
	if b.Owned() {
		t.Error("borrowed binding must not be owned")
	}
	if b.SurfaceFormat != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat = %v, want RGBA8Unorm", b.SurfaceFormat)
	}
	if b.Adapter.DeviceType != gputypes.DeviceTypeCPU {
		t.Errorf("DeviceType = %v, want CPU", b.Adapter.DeviceType)
	}

	b.Destroy()
	if rig.Device.Destroyed {
		t.Error("Destroy released a borrowed device")
	}
}

func TestBorrowDeviceErrors(t *testing.T) {
	rig := gputest.NewRig()
	withNilQueue := rig.Provider(gputypes.TextureFormatUndefined)
	withNilQueue.HALQ = nil

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		surface  hal.Surface
		want     error
	}{
		{"nil provider", nil, rig.Surface, ErrNoHALDevice},
		{"no hal access", plainProvider{}, rig.Surface, ErrNoHALDevice},
		{"nil queue", withNilQueue, rig.Surface, ErrNoHALDevice},
		{"no surface", rig.Provider(gputypes.TextureFormatUndefined), nil, ErrNoSurface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BorrowDevice(tt.provider, tt.surface)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
