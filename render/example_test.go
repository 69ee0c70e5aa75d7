// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"fmt"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
)

// markerPass records a single plugin event each frame.
type markerPass struct {
	fn plugin.EventFunc
}

func (p *markerPass) Name() string            { return "marker" }
func (p *markerPass) Event() render.PassEvent { return render.AfterRenderingOpaques }

func (p *markerPass) Execute(ctx *render.Context, _ *render.RenderingData) error {
	buf, err := ctx.Pool().Get()
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Pool().Release(buf) }()

	if err := buf.IssuePluginEvent(p.fn, 1); err != nil {
		return err
	}
	return ctx.ExecuteCommandBuffer(buf)
}

type markerFeature struct {
	pass *markerPass
}

func (f *markerFeature) Name() string  { return "marker" }
func (f *markerFeature) Create() error { return nil }

func (f *markerFeature) AddRenderPasses(r *render.Renderer, _ *render.RenderingData) {
	r.EnqueuePass(f.pass)
}

// ExamplePipeline demonstrates driving frames with a feature whose pass
// triggers a native callback.
func ExamplePipeline() {
	fn := plugin.NewEventFunc(func(eventID int32) {
		fmt.Println("native callback, event", eventID)
	})
	defer plugin.Revoke(fn)

	pipeline := render.NewPipeline()
	defer pipeline.Close()

	if err := pipeline.AddFeature(&markerFeature{pass: &markerPass{fn: fn}}); err != nil {
		fmt.Println("add feature:", err)
		return
	}
	if err := pipeline.Build(); err != nil {
		fmt.Println("build:", err)
		return
	}

	stats, err := pipeline.RenderFrame(render.NewPixmapTarget(100, 100))
	if err != nil {
		fmt.Println("render failed:", err)
		return
	}
	fmt.Println(stats.Passes)
	// Output:
	// native callback, event 1
	// [DrawOpaqueObjects marker DrawSkybox DrawTransparentObjects]
}

// ExamplePassEvent shows how pass events order a frame.
func ExamplePassEvent() {
	fmt.Println(render.AfterRenderingOpaques < render.BeforeRenderingSkybox)
	fmt.Println(render.AfterRenderingOpaques + 1)
	// Output:
	// true
	// PassEvent(301)
}
