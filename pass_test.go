package nativepass

import (
	"errors"
	"testing"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
)

func TestPassReleasesBufferWhenSubmitFails(t *testing.T) {
	lib := newFakeLibrary()
	defer lib.close()
	pool := newCountingPool()

	p := render.NewPipeline(render.WithCommandBufferPool(pool), render.WithoutBuiltinPasses())
	defer p.Close()
	_ = p.AddFeature(extraPasses{invalidatingPass{}})
	_ = p.AddFeature(NewFeature(lib))
	if err := p.Build(); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	_, err := p.RenderFrame(nil)
	if !errors.Is(err, render.ErrContextInvalid) {
		t.Fatalf("RenderFrame() error = %v, want ErrContextInvalid", err)
	}
	if pool.gets != 1 || pool.releases != 1 {
		t.Errorf("pool gets/releases = %d/%d, want 1/1", pool.gets, pool.releases)
	}
	if len(lib.events) != 0 {
		t.Errorf("plugin events = %v in a torn down frame, want none", lib.events)
	}
}

func TestPassReleasesBufferOnNilHandle(t *testing.T) {
	lib := newFakeLibrary()
	lib.override = &plugin.EventFunc{}
	pool := newCountingPool()
	p := buildPipeline(t, NewFeature(lib), render.WithCommandBufferPool(pool), render.WithoutBuiltinPasses())

	_, err := p.RenderFrame(nil)
	if !errors.Is(err, plugin.ErrNilHandle) {
		t.Fatalf("RenderFrame() error = %v, want ErrNilHandle", err)
	}
	if pool.releases != 1 {
		t.Errorf("pool releases = %d, want 1", pool.releases)
	}
}

func TestPassStaleHandleRejected(t *testing.T) {
	stale := plugin.NewEventFunc(func(int32) {
		t.Error("revoked callback ran")
	})
	plugin.Revoke(stale)

	lib := newFakeLibrary()
	lib.override = &stale
	pool := newCountingPool()
	p := buildPipeline(t, NewFeature(lib), render.WithCommandBufferPool(pool), render.WithoutBuiltinPasses())

	_, err := p.RenderFrame(nil)
	if !errors.Is(err, plugin.ErrStaleHandle) {
		t.Fatalf("RenderFrame() error = %v, want ErrStaleHandle", err)
	}
	if pool.releases != 1 {
		t.Errorf("pool releases = %d, want 1", pool.releases)
	}
}

func TestPassQueriesHandleEveryFrame(t *testing.T) {
	lib := newFakeLibrary()
	defer lib.close()
	p := buildPipeline(t, NewFeature(lib), render.WithoutBuiltinPasses())

	var seen []plugin.EventFunc
	for range 4 {
		if _, err := p.RenderFrame(nil); err != nil {
			t.Fatalf("RenderFrame() error = %v", err)
		}
		seen = append(seen, lib.current)
	}

	// The library rotates its handle on every query; a cached handle would
	// be stale from the second frame on.
	for i := 1; i < len(seen); i++ {
		if seen[i] == seen[i-1] {
			t.Errorf("frame %d reused handle %v", i+1, seen[i])
		}
	}
	if lib.gets != 4 || len(lib.events) != 4 {
		t.Errorf("gets/events = %d/%d, want 4/4", lib.gets, len(lib.events))
	}
}

func TestPassRunsAtItsEvent(t *testing.T) {
	lib := newFakeLibrary()
	defer lib.close()
	p := buildPipeline(t, NewFeature(lib, WithEvent(render.AfterRenderingSkybox)))

	stats, err := p.RenderFrame(nil)
	if err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	want := []string{"DrawOpaqueObjects", "DrawSkybox", DefaultName, "DrawTransparentObjects"}
	if len(stats.Passes) != len(want) {
		t.Fatalf("Passes = %v, want %v", stats.Passes, want)
	}
	for i := range want {
		if stats.Passes[i] != want[i] {
			t.Errorf("Passes[%d] = %s, want %s", i, stats.Passes[i], want[i])
		}
	}
}

func TestPassExecuteRecordsOneEvent(t *testing.T) {
	lib := newFakeLibrary()
	defer lib.close()
	f := NewFeature(lib, WithEventID(42))
	p := buildPipeline(t, f, render.WithoutBuiltinPasses())

	stats, err := p.RenderFrame(nil)
	if err != nil {
		t.Fatalf("RenderFrame() error = %v", err)
	}
	if stats.CommandBuffers != 1 {
		t.Errorf("CommandBuffers = %d, want 1", stats.CommandBuffers)
	}
	if len(lib.events) != 1 || lib.events[0] != 42 {
		t.Errorf("plugin events = %v, want [42]", lib.events)
	}
}
