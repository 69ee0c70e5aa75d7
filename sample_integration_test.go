package nativepass_test

import (
	"errors"
	"testing"

	"github.com/gogpu/nativepass"
	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/plugin/sample"
	"github.com/gogpu/nativepass/render"
)

func newSamplePipeline(t *testing.T) (*render.Pipeline, *sample.Plugin) {
	t.Helper()
	p := render.NewPipeline()
	t.Cleanup(p.Close)

	native := sample.New()
	if err := native.Load(p.Graphics()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(native.Unload)

	lib, err := plugin.Load(sample.LibraryName, native.Symbols())
	if err != nil {
		t.Fatalf("plugin.Load() error = %v", err)
	}
	if err := p.AddFeature(nativepass.NewFeature(lib)); err != nil {
		t.Fatalf("AddFeature() error = %v", err)
	}
	if err := p.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return p, native
}

func TestSamplePluginDrawsAfterOpaques(t *testing.T) {
	p, native := newSamplePipeline(t)

	if got := native.Time(); got != nativepass.DefaultTime {
		t.Errorf("plugin time = %v, want %v", got, nativepass.DefaultTime)
	}

	for frame := 1; frame <= 3; frame++ {
		if _, err := p.RenderFrame(render.NewPixmapTarget(320, 240)); err != nil {
			t.Fatalf("frame %d: RenderFrame() error = %v", frame, err)
		}

		var ops []render.DeviceOp
		var labels []string
		for _, c := range p.Graphics().DeviceCommands() {
			ops = append(ops, c.Op)
			labels = append(labels, c.Label)
		}
		want := []render.DeviceOp{
			render.OpBeginSample, render.OpEndSample, // DrawOpaqueObjects
			render.OpBindVertexBuffer, render.OpPushConstants, render.OpBindPipeline, render.OpDraw,
			render.OpBeginSample, render.OpEndSample, // DrawSkybox
			render.OpBeginSample, render.OpEndSample, // DrawTransparentObjects
		}
		if len(ops) != len(want) {
			t.Fatalf("frame %d: device ops = %v, want %v", frame, ops, want)
		}
		for i := range want {
			if ops[i] != want[i] {
				t.Errorf("frame %d: op %d = %v, want %v", frame, i, ops[i], want[i])
			}
		}
		if labels[0] != "DrawOpaqueObjects" || labels[6] != "DrawSkybox" {
			t.Errorf("frame %d: sample labels = %q, %q", frame, labels[0], labels[6])
		}
	}
}

func TestSamplePluginUnloadedHandsOutNilHandle(t *testing.T) {
	p, native := newSamplePipeline(t)

	if _, err := p.RenderFrame(nil); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	native.Unload()

	// The unloaded plugin hands out the nil handle.
	_, err := p.RenderFrame(nil)
	if !errors.Is(err, plugin.ErrNilHandle) {
		t.Errorf("RenderFrame() after Unload error = %v, want ErrNilHandle", err)
	}
}

func TestSamplePluginSurvivesDeviceReset(t *testing.T) {
	p, native := newSamplePipeline(t)
	target := render.NewPixmapTarget(64, 64)

	if _, err := p.RenderFrame(target); err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	before := native.GetRenderEventFunc()

	p.Graphics().SendDeviceEvent(plugin.DeviceEventShutdown)
	p.Graphics().SendDeviceEvent(plugin.DeviceEventInitialize)

	if native.GetRenderEventFunc() == before {
		t.Error("handle survived device reinitialization")
	}
	if _, err := p.RenderFrame(target); err != nil {
		t.Fatalf("RenderFrame() after reinitialize error = %v", err)
	}
}
