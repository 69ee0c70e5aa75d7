// Package nativepass injects a native plugin rendering callback into a
// render pipeline right after opaque geometry is drawn.
//
// # Overview
//
// Two types cooperate:
//
//   - [Feature] is registered with a render.Pipeline. On every pipeline
//     build its Create method makes a fresh [Pass]; every frame its
//     AddRenderPasses method enqueues that pass.
//   - [Pass] pushes a time value into the plugin once, when it is
//     constructed. Each frame it borrows a command buffer, records a plugin
//     event carrying the plugin's current render event handle, submits the
//     buffer and returns it to the pool.
//
// # Quick Start
//
//	pipe := render.NewPipeline()
//
//	native := sample.New()
//	if err := native.Load(pipe.Graphics()); err != nil {
//	    return err
//	}
//	lib, err := plugin.Load("NativePluginSample", native.Symbols())
//	if err != nil {
//	    return err // linkage failure: abort pipeline construction
//	}
//
//	if err := pipe.AddFeature(nativepass.NewFeature(lib)); err != nil {
//	    return err
//	}
//	if err := pipe.Build(); err != nil {
//	    return err
//	}
//	for range 3 {
//	    if _, err := pipe.RenderFrame(target); err != nil {
//	        return err
//	    }
//	}
//
// # Handles
//
// The render event handle is fetched from the plugin on every Execute and
// never kept between frames. A plugin that unloads or reinitializes revokes
// its handles, so a cached handle would fail at dispatch with
// plugin.ErrStaleHandle.
//
// # Errors
//
// The pass adds no retries and swallows nothing: pool exhaustion and
// submission failures are returned to the pipeline, which aborts the frame.
// What the native callback does once dispatched is outside the reach of
// this package.
package nativepass
