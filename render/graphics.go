// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/nativepass/plugin"
)

// DeviceOp identifies a device-level command in the frame's device command
// list.
type DeviceOp uint8

const (
	// OpBeginSample opens a profiling scope.
	OpBeginSample DeviceOp = iota + 1

	// OpEndSample closes a profiling scope.
	OpEndSample

	// OpBindVertexBuffer binds plugin vertex data.
	OpBindVertexBuffer

	// OpPushConstants uploads plugin constants.
	OpPushConstants

	// OpBindPipeline selects a plugin pipeline.
	OpBindPipeline

	// OpDraw issues a draw.
	OpDraw
)

// String returns the op name.
func (op DeviceOp) String() string {
	switch op {
	case OpBeginSample:
		return "BeginSample"
	case OpEndSample:
		return "EndSample"
	case OpBindVertexBuffer:
		return "BindVertexBuffer"
	case OpPushConstants:
		return "PushConstants"
	case OpBindPipeline:
		return "BindPipeline"
	case OpDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// DeviceCommand is one entry of the device command list produced when a
// Context is submitted. Only the fields relevant to Op are set.
type DeviceCommand struct {
	Op         DeviceOp
	Frame      uint64
	RenderPass uint64

	Label string

	Slot   uint32
	Data   []byte
	Layout gputypes.VertexBufferLayout

	Offset    uint32
	Constants []float32

	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// passKey identifies a host render pass by its attachment configuration.
type passKey struct {
	width, height int
	format        gputypes.TextureFormat
}

// Graphics is the host side of the native plugin interface. It carries the
// device, broadcasts device events to plugins and exposes the recording
// state while plugin events are dispatched.
//
// Graphics is safe for concurrent use, but dispatch and recording happen on
// the rendering goroutine.
type Graphics struct {
	mu        sync.Mutex
	device    DeviceHandle
	backend   gputypes.Backend
	callbacks map[uint64]plugin.DeviceEventCallback
	nextCB    uint64

	recording *plugin.RecordingState
	passes    map[passKey]uint64
	formats   map[uint64]gputypes.TextureFormat
	commands  []DeviceCommand
}

// NewGraphics creates the host graphics interface for device running on
// backend. A nil device is replaced with NullDeviceHandle.
func NewGraphics(device DeviceHandle, backend gputypes.Backend) *Graphics {
	if device == nil {
		device = NullDeviceHandle{}
	}
	return &Graphics{
		device:    device,
		backend:   backend,
		callbacks: make(map[uint64]plugin.DeviceEventCallback),
		passes:    make(map[passKey]uint64),
		formats:   make(map[uint64]gputypes.TextureFormat),
	}
}

// Device implements plugin.Graphics.
func (g *Graphics) Device() gpucontext.DeviceProvider { return g.device }

// Backend implements plugin.Graphics.
func (g *Graphics) Backend() gputypes.Backend { return g.backend }

// RecordingState implements plugin.Graphics. It reports false outside of a
// plugin event dispatch.
func (g *Graphics) RecordingState() (plugin.RecordingState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.recording == nil {
		return plugin.RecordingState{}, false
	}
	return *g.recording, true
}

// RegisterDeviceEventCallback implements plugin.Graphics.
func (g *Graphics) RegisterDeviceEventCallback(cb plugin.DeviceEventCallback) func() {
	if cb == nil {
		return func() {}
	}
	g.mu.Lock()
	g.nextCB++
	id := g.nextCB
	g.callbacks[id] = cb
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.callbacks, id)
			g.mu.Unlock()
		})
	}
}

// SendDeviceEvent delivers ev to every registered callback in registration
// order. Callbacks run without the lock held and may unregister themselves.
func (g *Graphics) SendDeviceEvent(ev plugin.DeviceEvent) {
	g.mu.Lock()
	ids := make([]uint64, 0, len(g.callbacks))
	for id := range g.callbacks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	cbs := make([]plugin.DeviceEventCallback, 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, g.callbacks[id])
	}
	g.mu.Unlock()

	slogger().Info("render: device event", "event", ev, "subscribers", len(cbs))
	for _, cb := range cbs {
		cb(ev)
	}
}

// DeviceCommands returns a copy of the device command list recorded since
// the start of the current frame.
func (g *Graphics) DeviceCommands() []DeviceCommand {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.commands)
}

// renderPassFor returns the render pass identifier for target. Identifiers
// are allocated on first use and stay stable for the device lifetime.
// A nil target maps to 0.
func (g *Graphics) renderPassFor(target RenderTarget) uint64 {
	if target == nil {
		return 0
	}
	key := passKey{width: target.Width(), height: target.Height(), format: target.Format()}

	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.passes[key]
	if !ok {
		id = uint64(len(g.passes)) + 1
		g.passes[key] = id
		g.formats[id] = key.format
	}
	return id
}

func (g *Graphics) resetCommands() {
	g.mu.Lock()
	g.commands = g.commands[:0]
	g.mu.Unlock()
}

func (g *Graphics) record(c DeviceCommand) {
	g.mu.Lock()
	g.commands = append(g.commands, c)
	g.mu.Unlock()
}

// dispatchPluginEvent opens the recording state for frame and renderPass,
// invokes the plugin callback and closes the state again.
func (g *Graphics) dispatchPluginEvent(frame, renderPass uint64, fn plugin.EventFunc, eventID int32) error {
	g.mu.Lock()
	g.recording = &plugin.RecordingState{
		RenderPass:  renderPass,
		Format:      g.formats[renderPass],
		FrameNumber: frame,
		Recorder:    deviceRecorder{g: g, frame: frame, renderPass: renderPass},
	}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.recording = nil
		g.mu.Unlock()
	}()

	return plugin.Dispatch(fn, eventID)
}

// deviceRecorder appends plugin commands to the device command list.
type deviceRecorder struct {
	g          *Graphics
	frame      uint64
	renderPass uint64
}

func (r deviceRecorder) BindVertexBuffer(slot uint32, data []byte, layout gputypes.VertexBufferLayout) {
	r.g.record(DeviceCommand{
		Op: OpBindVertexBuffer, Frame: r.frame, RenderPass: r.renderPass,
		Slot: slot, Data: slices.Clone(data), Layout: layout,
	})
}

func (r deviceRecorder) PushConstants(offset uint32, data []float32) {
	r.g.record(DeviceCommand{
		Op: OpPushConstants, Frame: r.frame, RenderPass: r.renderPass,
		Offset: offset, Constants: slices.Clone(data),
	})
}

func (r deviceRecorder) BindPipeline(label string) {
	r.g.record(DeviceCommand{
		Op: OpBindPipeline, Frame: r.frame, RenderPass: r.renderPass,
		Label: label,
	})
}

func (r deviceRecorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.g.record(DeviceCommand{
		Op: OpDraw, Frame: r.frame, RenderPass: r.renderPass,
		VertexCount: vertexCount, InstanceCount: instanceCount,
		FirstVertex: firstVertex, FirstInstance: firstInstance,
	})
}

var (
	_ plugin.Graphics        = (*Graphics)(nil)
	_ plugin.CommandRecorder = deviceRecorder{}
)
