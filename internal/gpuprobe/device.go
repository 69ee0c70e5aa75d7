package gpuprobe

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is a logical device opened on the preferred adapter. It is handed
// to render pipelines as their gpucontext.DeviceProvider; Device returns
// the hal.Device native plugins create their objects on.
type Device struct {
	instance hal.Instance
	exposed  []hal.ExposedAdapter
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	info     Adapter

	closeOnce sync.Once
}

// OpenVulkan opens a device on the preferred Vulkan adapter.
func OpenVulkan() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	return Open(backend)
}

// Open creates an instance with f and opens a device with default limits
// on the adapter Probe would mark preferred. Close releases everything.
func Open(f InstanceFactory) (*Device, error) {
	instance, err := f.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	exposed := instance.EnumerateAdapters(nil)
	if len(exposed) == 0 {
		instance.Destroy()
		return nil, errNoAdapters
	}
	adapters := describe(exposed)
	i := preferred(adapters)

	open, err := exposed[i].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		destroyAdapters(exposed)
		instance.Destroy()
		return nil, fmt.Errorf("open %s: %w", adapters[i].Name, err)
	}

	logger().Info("gpuprobe: device opened", "adapter", adapters[i].Name, "type", adapters[i].DeviceType)
	return &Device{
		instance: instance,
		exposed:  exposed,
		adapter:  exposed[i].Adapter,
		device:   open.Device,
		queue:    open.Queue,
		info:     adapters[i],
	}, nil
}

// Device returns the hal.Device.
func (d *Device) Device() gpucontext.Device { return d.device }

// Queue returns the hal.Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// Adapter returns the hal.Adapter the device was opened on.
func (d *Device) Adapter() gpucontext.Adapter { return d.adapter }

// SurfaceFormat returns TextureFormatUndefined; the device is headless.
func (d *Device) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo describes the adapter the device was opened on.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: adapterType(d.info.DeviceType)}
}

// Close waits for the device to go idle and destroys the device, the
// adapters and the instance. Close is idempotent.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		if err := d.device.WaitIdle(); err != nil {
			logger().Warn("gpuprobe: wait idle", "err", err)
		}
		d.device.Destroy()
		destroyAdapters(d.exposed)
		d.instance.Destroy()
	})
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

var _ gpucontext.DeviceProvider = (*Device)(nil)
