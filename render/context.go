// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

// ErrContextInvalid is returned when a Context is used after teardown.
var ErrContextInvalid = errors.New("render: render context is invalid")

// Context is the per-frame submission context passed to every pass.
//
// ExecuteCommandBuffer copies a buffer's commands into the frame queue, so
// the buffer can be released immediately afterwards. Submit runs the queue
// in order once every pass has executed.
type Context struct {
	frame      uint64
	renderPass uint64
	pool       BufferPool
	graphics   *Graphics

	queue     []Command
	executed  int
	submitted bool
	invalid   bool
}

func newContext(frame, renderPass uint64, pool BufferPool, g *Graphics) *Context {
	return &Context{
		frame:      frame,
		renderPass: renderPass,
		pool:       pool,
		graphics:   g,
	}
}

// Frame returns the frame number this context records.
func (c *Context) Frame() uint64 { return c.frame }

// Pool returns the command buffer pool shared by the frame's passes.
func (c *Context) Pool() BufferPool { return c.pool }

// ExecuteCommandBuffer schedules the commands recorded in b for execution
// at Submit. It fails with ErrContextInvalid after Invalidate or Submit.
func (c *Context) ExecuteCommandBuffer(b *CommandBuffer) error {
	if c.invalid || c.submitted {
		return ErrContextInvalid
	}
	if b == nil {
		return ErrNilCommandBuffer
	}
	if b.released {
		return ErrBufferReleased
	}
	c.queue = append(c.queue, b.cmds...)
	c.executed++
	return nil
}

// Executed returns the number of command buffers scheduled so far.
func (c *Context) Executed() int { return c.executed }

// Invalidate marks the context as torn down. Later calls to
// ExecuteCommandBuffer and Submit fail with ErrContextInvalid.
func (c *Context) Invalidate() {
	c.invalid = true
	c.queue = nil
}

// Submit executes the scheduled commands in order. Sample markers go to the
// device command list; plugin events are dispatched to their native
// callbacks. The first failing command stops execution and its error is
// returned. A context can be submitted once.
func (c *Context) Submit() error {
	if c.invalid || c.submitted {
		return ErrContextInvalid
	}
	c.submitted = true
	queue := c.queue
	c.queue = nil

	for i, cmd := range queue {
		switch cmd.Kind {
		case CommandBeginSample:
			c.graphics.record(DeviceCommand{Op: OpBeginSample, Frame: c.frame, RenderPass: c.renderPass, Label: cmd.Label})
		case CommandEndSample:
			c.graphics.record(DeviceCommand{Op: OpEndSample, Frame: c.frame, RenderPass: c.renderPass, Label: cmd.Label})
		case CommandPluginEvent:
			if err := c.graphics.dispatchPluginEvent(c.frame, c.renderPass, cmd.Func, cmd.EventID); err != nil {
				return fmt.Errorf("render: command %d (plugin event %d): %w", i, cmd.EventID, err)
			}
		default:
			return fmt.Errorf("render: command %d: unknown kind %v", i, cmd.Kind)
		}
	}
	return nil
}
