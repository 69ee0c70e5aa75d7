// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "fmt"

// RenderingData is the per-frame state shared with features and passes.
type RenderingData struct {
	// Frame is the 1-based frame number.
	Frame uint64

	// Target is the camera color target. It may be nil for headless frames.
	Target RenderTarget

	// Graphics is the host graphics interface.
	Graphics *Graphics
}

// Pass is one render step executed by the pipeline each frame it is
// enqueued.
type Pass interface {
	// Name returns a debug name.
	Name() string

	// Event returns the insertion point of the pass. It must not change
	// while the pass is enqueued.
	Event() PassEvent

	// Execute records and submits the pass's work. Errors abort the frame.
	Execute(ctx *Context, data *RenderingData) error
}

// Feature extends a pipeline with passes. Features are registered with
// Pipeline.AddFeature.
type Feature interface {
	// Name returns a debug name.
	Name() string

	// Create builds the feature's passes. It runs on every pipeline
	// build; an error aborts the build.
	Create() error

	// AddRenderPasses enqueues the feature's passes for the current frame.
	// It must not do GPU work.
	AddRenderPasses(r *Renderer, data *RenderingData)
}

// drawPass is a built-in pass standing in for the host's own geometry
// drawing. It brackets its slot in the frame with sample markers.
type drawPass struct {
	name  string
	event PassEvent
}

// Built-in host passes enqueued at the start of every frame.
var builtinPasses = []Pass{
	&drawPass{name: "DrawOpaqueObjects", event: BeforeRenderingOpaques},
	&drawPass{name: "DrawSkybox", event: BeforeRenderingSkybox},
	&drawPass{name: "DrawTransparentObjects", event: BeforeRenderingTransparents},
}

func (p *drawPass) Name() string     { return p.name }
func (p *drawPass) Event() PassEvent { return p.event }

func (p *drawPass) Execute(ctx *Context, _ *RenderingData) error {
	pool := ctx.Pool()
	buf, err := pool.Get()
	if err != nil {
		return fmt.Errorf("%s: %w", p.name, err)
	}
	defer func() {
		if err := pool.Release(buf); err != nil {
			slogger().Warn("render: release command buffer", "pass", p.name, "err", err)
		}
	}()

	buf.SetName(p.name)
	if err := buf.BeginSample(p.name); err != nil {
		return err
	}
	if err := buf.EndSample(p.name); err != nil {
		return err
	}
	return ctx.ExecuteCommandBuffer(buf)
}
