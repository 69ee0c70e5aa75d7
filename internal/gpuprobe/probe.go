// Package gpuprobe lists the GPU adapters a backend exposes.
package gpuprobe

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// Adapter describes one GPU adapter.
type Adapter struct {
	Name       string
	DeviceType gputypes.DeviceType

	// Preferred marks the adapter a device would be opened on.
	Preferred bool
}

// InstanceFactory creates HAL instances. hal backends implement it.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Vulkan lists the adapters of the Vulkan backend.
func Vulkan() ([]Adapter, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	return Probe(backend)
}

// Probe creates an instance with f, lists its adapters and destroys the
// instance again. Exactly one returned adapter is preferred: the first
// discrete or integrated GPU, else the first adapter.
func Probe(f InstanceFactory) ([]Adapter, error) {
	instance, err := f.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	exposed := instance.EnumerateAdapters(nil)
	defer destroyAdapters(exposed)
	if len(exposed) == 0 {
		return nil, errNoAdapters
	}
	return describe(exposed), nil
}

var errNoAdapters = errors.New("no GPU adapters found")

// describe lists exposed adapters and marks the preferred one.
func describe(exposed []hal.ExposedAdapter) []Adapter {
	adapters := make([]Adapter, len(exposed))
	for i := range exposed {
		adapters[i] = Adapter{
			Name:       exposed[i].Info.Name,
			DeviceType: exposed[i].Info.DeviceType,
		}
	}
	adapters[preferred(adapters)].Preferred = true
	return adapters
}

func destroyAdapters(exposed []hal.ExposedAdapter) {
	for _, e := range exposed {
		if e.Adapter != nil {
			e.Adapter.Destroy()
		}
	}
}

func preferred(adapters []Adapter) int {
	for i, a := range adapters {
		if a.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			a.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return i
		}
	}
	return 0
}
