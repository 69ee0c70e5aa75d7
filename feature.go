package nativepass

import (
	"fmt"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
)

// Feature registers the native plugin pass with a render pipeline.
//
// Register it with render.Pipeline.AddFeature. The pipeline calls Create on
// every build and AddRenderPasses on every frame.
type Feature struct {
	lib  plugin.Library
	opts options
	pass *Pass
}

// NewFeature creates a feature driving lib. The pass is not constructed,
// and the plugin is not called, until Create.
func NewFeature(lib plugin.Library, opts ...Option) *Feature {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Feature{lib: lib, opts: o}
}

// Name implements render.Feature.
func (f *Feature) Name() string { return f.opts.name }

// Create implements render.Feature. It constructs a new Pass, replacing the
// one from the previous build; the old pass is never enqueued again.
// Without a library Create fails with plugin.ErrNotLinked.
func (f *Feature) Create() error {
	if !plugin.Linked(f.lib) {
		return fmt.Errorf("nativepass: %s: %w", f.opts.name, plugin.ErrNotLinked)
	}
	f.pass = newPass(f.lib, f.opts)
	Logger().Info("nativepass: pass created",
		"name", f.opts.name,
		"event", f.opts.event,
		"time", f.opts.time)
	return nil
}

// AddRenderPasses implements render.Feature. Before Create it does nothing.
func (f *Feature) AddRenderPasses(r *render.Renderer, _ *render.RenderingData) {
	if f.pass == nil || r == nil {
		return
	}
	r.EnqueuePass(f.pass)
}

// Pass returns the current pass, or nil before Create.
func (f *Feature) Pass() *Pass { return f.pass }

var _ render.Feature = (*Feature)(nil)
