// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nativepass/plugin"
)

// Pipeline errors.
var (
	// ErrNotBuilt is returned by RenderFrame before a successful Build.
	ErrNotBuilt = errors.New("render: pipeline not built")

	// ErrPipelineClosed is returned after Close.
	ErrPipelineClosed = errors.New("render: pipeline closed")

	// ErrNilFeature is returned by AddFeature for a nil feature.
	ErrNilFeature = errors.New("render: feature is nil")
)

// PipelineOption configures a Pipeline during creation.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	device       DeviceHandle
	backend      gputypes.Backend
	pool         BufferPool
	poolCapacity int
	builtins     bool
}

func defaultPipelineOptions() pipelineOptions {
	return pipelineOptions{
		device:   NullDeviceHandle{},
		backend:  gputypes.BackendVulkan,
		builtins: true,
	}
}

// WithDevice sets the GPU device shared with native plugins.
func WithDevice(d DeviceHandle) PipelineOption {
	return func(o *pipelineOptions) {
		o.device = d
	}
}

// WithBackend sets the graphics API reported to native plugins.
// The default is gputypes.BackendVulkan.
func WithBackend(b gputypes.Backend) PipelineOption {
	return func(o *pipelineOptions) {
		o.backend = b
	}
}

// WithCommandBufferPool replaces the pipeline's command buffer pool.
func WithCommandBufferPool(p BufferPool) PipelineOption {
	return func(o *pipelineOptions) {
		o.pool = p
	}
}

// WithPoolCapacity sets the capacity of the default command buffer pool.
// It is ignored when WithCommandBufferPool is used.
func WithPoolCapacity(n int) PipelineOption {
	return func(o *pipelineOptions) {
		o.poolCapacity = n
	}
}

// WithoutBuiltinPasses disables the host's built-in draw passes, leaving
// only feature passes in the frame.
func WithoutBuiltinPasses() PipelineOption {
	return func(o *pipelineOptions) {
		o.builtins = false
	}
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	// Frame is the frame number.
	Frame uint64

	// Passes lists executed pass names in order.
	Passes []string

	// CommandBuffers is the number of buffers scheduled on the context.
	CommandBuffers int

	// DeviceCommands is the size of the device command list after submit.
	DeviceCommands int
}

// Pipeline drives frames: it owns the registered features, the shared
// command buffer pool and the host graphics interface.
//
// A Pipeline is driven from one rendering goroutine: AddFeature, Build,
// RenderFrame and Close must not be called concurrently.
type Pipeline struct {
	opts     pipelineOptions
	graphics *Graphics
	pool     BufferPool
	features []Feature
	renderer Renderer
	frame    uint64
	built    bool
	closed   bool
}

// NewPipeline creates a pipeline. Register features with AddFeature, then
// call Build before the first RenderFrame.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	o := defaultPipelineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pool := o.pool
	if pool == nil {
		pool = NewCommandBufferPool(o.poolCapacity)
	}
	return &Pipeline{
		opts:     o,
		graphics: NewGraphics(o.device, o.backend),
		pool:     pool,
	}
}

// Graphics returns the host graphics interface to load native plugins with.
func (p *Pipeline) Graphics() *Graphics { return p.graphics }

// Pool returns the command buffer pool shared by all passes.
func (p *Pipeline) Pool() BufferPool { return p.pool }

// Frame returns the number of the last frame started.
func (p *Pipeline) Frame() uint64 { return p.frame }

// AddFeature registers f. The pipeline must be (re)built before the next
// frame.
func (p *Pipeline) AddFeature(f Feature) error {
	if p.closed {
		return ErrPipelineClosed
	}
	if f == nil {
		return ErrNilFeature
	}
	p.features = append(p.features, f)
	p.built = false
	return nil
}

// Build calls Create on every feature in registration order. The first
// error aborts the build and leaves the pipeline unbuilt. Build may be
// called again to rebuild; features replace their passes on each build.
func (p *Pipeline) Build() error {
	if p.closed {
		return ErrPipelineClosed
	}
	p.built = false
	for _, f := range p.features {
		if err := f.Create(); err != nil {
			return fmt.Errorf("render: create feature %q: %w", f.Name(), err)
		}
	}
	p.built = true
	slogger().Info("render: pipeline built", "features", len(p.features))
	return nil
}

// RenderFrame renders one frame into target:
//
//  1. built-in passes and every feature's passes are enqueued,
//  2. passes execute in event order, each scheduling command buffers,
//  3. the context is submitted, running plugin events in order.
//
// The first error aborts the frame and is returned as is, wrapped with the
// frame and pass that produced it. Nothing is retried.
func (p *Pipeline) RenderFrame(target RenderTarget) (FrameStats, error) {
	if p.closed {
		return FrameStats{}, ErrPipelineClosed
	}
	if !p.built {
		return FrameStats{}, ErrNotBuilt
	}

	p.frame++
	stats := FrameStats{Frame: p.frame}
	data := &RenderingData{Frame: p.frame, Target: target, Graphics: p.graphics}
	ctx := newContext(p.frame, p.graphics.renderPassFor(target), p.pool, p.graphics)
	p.graphics.resetCommands()

	p.renderer.reset()
	if p.opts.builtins {
		for _, b := range builtinPasses {
			p.renderer.EnqueuePass(b)
		}
	}
	for _, f := range p.features {
		f.AddRenderPasses(&p.renderer, data)
	}

	for _, pass := range p.renderer.Passes() {
		if err := pass.Execute(ctx, data); err != nil {
			ctx.Invalidate()
			return stats, fmt.Errorf("render: frame %d: pass %q: %w", p.frame, pass.Name(), err)
		}
		stats.Passes = append(stats.Passes, pass.Name())
	}

	stats.CommandBuffers = ctx.Executed()
	if err := ctx.Submit(); err != nil {
		return stats, fmt.Errorf("render: frame %d: submit: %w", p.frame, err)
	}
	stats.DeviceCommands = len(p.graphics.DeviceCommands())

	slogger().Debug("render: frame done",
		"frame", p.frame,
		"passes", len(stats.Passes),
		"buffers", stats.CommandBuffers,
		"deviceCommands", stats.DeviceCommands)
	return stats, nil
}

// Close sends a device shutdown event to loaded plugins and stops the
// pipeline. Close is idempotent.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.graphics.SendDeviceEvent(plugin.DeviceEventShutdown)
}
