package sample

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/nativepass/plugin"
)

// fakeGraphics is a minimal host that records plugin commands.
type fakeGraphics struct {
	mu        sync.Mutex
	backend   gputypes.Backend
	device    gpucontext.DeviceProvider
	format    gputypes.TextureFormat
	callbacks []plugin.DeviceEventCallback
	state     *plugin.RecordingState
	rec       *fakeRecorder
}

func newFakeGraphics(backend gputypes.Backend) *fakeGraphics {
	return &fakeGraphics{backend: backend, rec: &fakeRecorder{}}
}

func (g *fakeGraphics) Device() gpucontext.DeviceProvider { return g.device }
func (g *fakeGraphics) Backend() gputypes.Backend         { return g.backend }

func (g *fakeGraphics) RecordingState() (plugin.RecordingState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == nil {
		return plugin.RecordingState{}, false
	}
	return *g.state, true
}

func (g *fakeGraphics) RegisterDeviceEventCallback(cb plugin.DeviceEventCallback) func() {
	g.mu.Lock()
	g.callbacks = append(g.callbacks, cb)
	i := len(g.callbacks) - 1
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.callbacks[i] = nil
		g.mu.Unlock()
	}
}

func (g *fakeGraphics) send(ev plugin.DeviceEvent) {
	g.mu.Lock()
	cbs := append([]plugin.DeviceEventCallback(nil), g.callbacks...)
	g.mu.Unlock()
	for _, cb := range cbs {
		if cb != nil {
			cb(ev)
		}
	}
}

func (g *fakeGraphics) subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, cb := range g.callbacks {
		if cb != nil {
			n++
		}
	}
	return n
}

// dispatch runs fn with the recording state open on renderPass.
func (g *fakeGraphics) dispatch(renderPass uint64, fn plugin.EventFunc, eventID int32) error {
	g.mu.Lock()
	g.state = &plugin.RecordingState{RenderPass: renderPass, Format: g.format, FrameNumber: 1, Recorder: g.rec}
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.state = nil
		g.mu.Unlock()
	}()
	return plugin.Dispatch(fn, eventID)
}

type fakeRecorder struct {
	ops       []string
	data      []byte
	layout    gputypes.VertexBufferLayout
	constants []float32
	pipeline  string
	draws     [][4]uint32
}

func (r *fakeRecorder) BindVertexBuffer(slot uint32, data []byte, layout gputypes.VertexBufferLayout) {
	r.ops = append(r.ops, "BindVertexBuffer")
	r.data = data
	r.layout = layout
}

func (r *fakeRecorder) PushConstants(offset uint32, data []float32) {
	r.ops = append(r.ops, "PushConstants")
	r.constants = append([]float32(nil), data...)
}

func (r *fakeRecorder) BindPipeline(label string) {
	r.ops = append(r.ops, "BindPipeline")
	r.pipeline = label
}

func (r *fakeRecorder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.ops = append(r.ops, "Draw")
	r.draws = append(r.draws, [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance})
}

var _ plugin.Graphics = (*fakeGraphics)(nil)
