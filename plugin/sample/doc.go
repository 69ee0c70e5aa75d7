// Package sample is a native rendering plugin written in Go. It draws a
// rotating colored triangle into the host's render pass when its render
// event fires.
//
// The plugin follows the native plugin lifecycle:
//
//	p := sample.New()
//	if err := p.Load(pipeline.Graphics()); err != nil { ... }
//	lib, err := plugin.Load(sample.LibraryName, p.Symbols())
//
// Load subscribes to device events and initializes the backend render API
// right away. Only Vulkan is supported; on other backends the plugin still
// hands out a render event handle, but dispatching it draws nothing.
//
// Event id 1 ([EventDrawTriangle]) draws the triangle. Other ids are ignored.
package sample
