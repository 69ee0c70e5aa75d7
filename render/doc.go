// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the host side of the frame pipeline that native render
// passes plug into.
//
// # Frame model
//
// A [Pipeline] owns a list of registered [Feature] values. Build calls
// Create on each of them once per pipeline build. Every frame the pipeline
//
//  1. enqueues its built-in draw passes and asks each feature to enqueue its
//     passes on the [Renderer],
//  2. executes the passes in [PassEvent] order; each pass borrows a
//     [CommandBuffer] from the shared pool, records into it and schedules it
//     on the frame [Context],
//  3. submits the context, which runs the scheduled commands in order and
//     dispatches plugin events to their native callbacks.
//
// The position of a pass in the frame is decided only by its PassEvent.
// Passes with equal events keep their enqueue order, and built-in passes
// are enqueued first.
//
//	BeforeRenderingOpaques       DrawOpaqueObjects (built-in)
//	AfterRenderingOpaques        feature passes, e.g. native plugin events
//	BeforeRenderingSkybox        DrawSkybox (built-in)
//	BeforeRenderingTransparents  DrawTransparentObjects (built-in)
//
// # Native plugins
//
// [Graphics] implements plugin.Graphics. Plugins subscribe to device events
// through it, and while a plugin event is dispatched they read the current
// recording state and record device commands. The resulting device command
// list is available from Graphics.DeviceCommands until the next frame.
//
// # Errors
//
// Nothing in this package retries. Pool exhaustion, context teardown and
// stale plugin handles all abort the frame and are returned from
// RenderFrame.
//
// # Thread Safety
//
// A Pipeline and its Context are driven from a single rendering goroutine.
// CommandBufferPool and Graphics may be shared across goroutines.
package render
