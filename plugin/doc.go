// Package plugin defines the boundary between the render pipeline and a
// native rendering plugin.
//
// A native plugin exports two entry points:
//
//	SetTimeFromUnity(t float32)        // one-way, called once per pass construction
//	GetRenderEventFunc() EventFunc     // pure lookup, called once per frame
//
// The handle returned by GetRenderEventFunc is an [EventFunc]: an opaque
// capability with no exported way to call, inspect or do arithmetic on it.
// Passes forward it into a command buffer; only the host's command executor
// reaches the callback behind it, through [Dispatch].
//
// Handles are owned by the plugin. When a plugin unloads or reinitializes it
// revokes its handles, and dispatching a revoked handle fails with
// [ErrStaleHandle]. Callers must therefore query GetRenderEventFunc every
// frame instead of caching its result.
//
// # Linkage
//
// [Load] resolves both entry points through a [Resolver] and verifies their
// signatures. A missing or mistyped symbol is reported as a [*LinkError] at
// load time so pipeline construction fails immediately rather than on the
// first frame.
//
// # Global state
//
// SetTimeFromUnity writes process-wide state owned by the plugin. The bridge
// assumes that state is initialized when the plugin is loaded and does not
// model its lifecycle.
package plugin
