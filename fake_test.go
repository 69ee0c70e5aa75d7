package nativepass

import (
	"sync"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
)

// fakeLibrary counts entry point calls. Each GetRenderEventFunc call
// revokes the previous handle and issues a new one, so a cached handle
// goes stale on the next frame.
type fakeLibrary struct {
	mu       sync.Mutex
	times    []float32
	gets     int
	events   []int32
	current  plugin.EventFunc
	rotate   bool
	override *plugin.EventFunc
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{rotate: true}
}

func (l *fakeLibrary) SetTimeFromUnity(t float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.times = append(l.times, t)
}

func (l *fakeLibrary) GetRenderEventFunc() plugin.EventFunc {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gets++
	if l.override != nil {
		return *l.override
	}
	if l.rotate || l.current.IsNil() {
		plugin.Revoke(l.current)
		l.current = plugin.NewEventFunc(l.onEvent)
	}
	return l.current
}

func (l *fakeLibrary) onEvent(id int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, id)
}

func (l *fakeLibrary) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	plugin.Revoke(l.current)
}

// countingPool wraps a pool and can fail chosen Get calls (1-based).
type countingPool struct {
	inner    render.BufferPool
	failGets map[int]bool
	gets     int
	releases int
	failures int
	active   int
	maxHeld  int
}

func newCountingPool(failGets ...int) *countingPool {
	p := &countingPool{
		inner:    render.NewCommandBufferPool(4),
		failGets: make(map[int]bool),
	}
	for _, n := range failGets {
		p.failGets[n] = true
	}
	return p
}

func (p *countingPool) Get() (*render.CommandBuffer, error) {
	p.gets++
	if p.failGets[p.gets] {
		p.failures++
		return nil, render.ErrPoolExhausted
	}
	b, err := p.inner.Get()
	if err != nil {
		return nil, err
	}
	p.active++
	p.maxHeld = max(p.maxHeld, p.active)
	return b, nil
}

func (p *countingPool) Release(b *render.CommandBuffer) error {
	p.releases++
	p.active--
	return p.inner.Release(b)
}

// invalidatingPass tears the frame context down before the plugin pass runs.
type invalidatingPass struct{}

func (invalidatingPass) Name() string            { return "invalidate" }
func (invalidatingPass) Event() render.PassEvent { return render.BeforeRenderingOpaques }
func (invalidatingPass) Execute(ctx *render.Context, _ *render.RenderingData) error {
	ctx.Invalidate()
	return nil
}

// extraPasses is a feature enqueuing fixed passes.
type extraPasses []render.Pass

func (extraPasses) Name() string  { return "extra" }
func (extraPasses) Create() error { return nil }
func (e extraPasses) AddRenderPasses(r *render.Renderer, _ *render.RenderingData) {
	for _, p := range e {
		r.EnqueuePass(p)
	}
}

// tracingFeature forwards to inner and records every pass it executes.
type tracingFeature struct {
	inner render.Feature
	ran   []render.Pass
}

func (f *tracingFeature) Name() string  { return f.inner.Name() }
func (f *tracingFeature) Create() error { return f.inner.Create() }
func (f *tracingFeature) AddRenderPasses(r *render.Renderer, data *render.RenderingData) {
	var own render.Renderer
	f.inner.AddRenderPasses(&own, data)
	for _, p := range own.Passes() {
		r.EnqueuePass(tracedPass{Pass: p, f: f})
	}
}

type tracedPass struct {
	render.Pass
	f *tracingFeature
}

func (p tracedPass) Execute(ctx *render.Context, data *render.RenderingData) error {
	p.f.ran = append(p.f.ran, p.Pass)
	return p.Pass.Execute(ctx, data)
}
