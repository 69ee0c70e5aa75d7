package plugin

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceEvent is a graphics device lifecycle notification sent by the host
// to loaded plugins.
type DeviceEvent int

const (
	// DeviceEventInitialize is sent once the device exists. Plugins also
	// receive it manually from their own load routine.
	DeviceEventInitialize DeviceEvent = iota

	// DeviceEventShutdown is sent before the device is destroyed.
	DeviceEventShutdown

	// DeviceEventBeforeReset is sent before a device reset.
	DeviceEventBeforeReset

	// DeviceEventAfterReset is sent after a device reset.
	DeviceEventAfterReset
)

// String returns the event name.
func (e DeviceEvent) String() string {
	switch e {
	case DeviceEventInitialize:
		return "Initialize"
	case DeviceEventShutdown:
		return "Shutdown"
	case DeviceEventBeforeReset:
		return "BeforeReset"
	case DeviceEventAfterReset:
		return "AfterReset"
	default:
		return "Unknown"
	}
}

// DeviceEventCallback receives device lifecycle events.
type DeviceEventCallback func(DeviceEvent)

// CommandRecorder records device-level GPU commands on behalf of a plugin
// while a rendering event is being dispatched.
type CommandRecorder interface {
	// BindVertexBuffer binds vertex data at slot with the given layout.
	BindVertexBuffer(slot uint32, data []byte, layout gputypes.VertexBufferLayout)

	// PushConstants uploads constant data visible to the vertex stage.
	PushConstants(offset uint32, data []float32)

	// BindPipeline selects a plugin-owned pipeline by label.
	BindPipeline(label string)

	// Draw issues a non-indexed draw.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// RecordingState describes the command stream a rendering event runs in.
// It is only valid for the duration of one dispatch.
type RecordingState struct {
	// RenderPass identifies the host render pass currently open. Values are
	// stable for the lifetime of the device.
	RenderPass uint64

	// Format is the color attachment format of RenderPass, or
	// TextureFormatUndefined when no attachments are bound.
	Format gputypes.TextureFormat

	// FrameNumber is the host frame being recorded.
	FrameNumber uint64

	// Recorder receives the plugin's device commands.
	Recorder CommandRecorder
}

// Graphics is the host interface handed to plugins when they load.
type Graphics interface {
	// Device returns the host GPU device.
	Device() gpucontext.DeviceProvider

	// Backend returns the graphics API the device runs on.
	Backend() gputypes.Backend

	// RecordingState returns the current command stream. The boolean is
	// false outside of a rendering event dispatch.
	RecordingState() (RecordingState, bool)

	// RegisterDeviceEventCallback subscribes cb to device events. The
	// returned function removes the subscription.
	RegisterDeviceEventCallback(cb DeviceEventCallback) (unregister func())
}
