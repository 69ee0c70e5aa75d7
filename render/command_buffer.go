// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/nativepass/plugin"
)

// Command buffer errors.
var (
	// ErrBufferReleased is returned when a command buffer is used after it
	// was returned to its pool.
	ErrBufferReleased = errors.New("render: command buffer already released")

	// ErrNilCommandBuffer is returned when a nil buffer is submitted or released.
	ErrNilCommandBuffer = errors.New("render: command buffer is nil")
)

// CommandKind identifies the type of a recorded command.
type CommandKind uint8

const (
	// CommandPluginEvent triggers a native plugin rendering callback.
	CommandPluginEvent CommandKind = iota + 1

	// CommandBeginSample opens a named profiling scope.
	CommandBeginSample

	// CommandEndSample closes a named profiling scope.
	CommandEndSample
)

// String returns the command kind name.
func (k CommandKind) String() string {
	switch k {
	case CommandPluginEvent:
		return "PluginEvent"
	case CommandBeginSample:
		return "BeginSample"
	case CommandEndSample:
		return "EndSample"
	default:
		return "Unknown"
	}
}

// Command is one recorded command. Only the fields relevant to Kind are set.
type Command struct {
	Kind CommandKind

	// Func and EventID are set for CommandPluginEvent.
	Func    plugin.EventFunc
	EventID int32

	// Label is set for sample markers.
	Label string
}

// CommandBuffer is a list of commands recorded by a pass and submitted to a
// Context. Buffers are borrowed from a CommandBufferPool and must be released
// back to it; a released buffer rejects further use.
type CommandBuffer struct {
	name     string
	cmds     []Command
	pool     *CommandBufferPool
	released bool
}

// NewCommandBuffer creates a standalone buffer that belongs to no pool.
func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{name: name}
}

// Name returns the debug name of the buffer.
func (b *CommandBuffer) Name() string { return b.name }

// SetName sets the debug name of the buffer.
func (b *CommandBuffer) SetName(name string) { b.name = name }

// IssuePluginEvent records a command that invokes the native callback fn
// with eventID when the buffer is executed. The handle is recorded as is;
// it is not called here.
func (b *CommandBuffer) IssuePluginEvent(fn plugin.EventFunc, eventID int32) error {
	if b.released {
		return ErrBufferReleased
	}
	if fn.IsNil() {
		return plugin.ErrNilHandle
	}
	b.cmds = append(b.cmds, Command{Kind: CommandPluginEvent, Func: fn, EventID: eventID})
	return nil
}

// BeginSample records the start of a profiling scope.
func (b *CommandBuffer) BeginSample(label string) error {
	return b.record(Command{Kind: CommandBeginSample, Label: label})
}

// EndSample records the end of a profiling scope.
func (b *CommandBuffer) EndSample(label string) error {
	return b.record(Command{Kind: CommandEndSample, Label: label})
}

func (b *CommandBuffer) record(c Command) error {
	if b.released {
		return ErrBufferReleased
	}
	b.cmds = append(b.cmds, c)
	return nil
}

// Len returns the number of recorded commands.
func (b *CommandBuffer) Len() int { return len(b.cmds) }

// Commands returns a copy of the recorded commands.
func (b *CommandBuffer) Commands() []Command {
	out := make([]Command, len(b.cmds))
	copy(out, b.cmds)
	return out
}

// Clear drops all recorded commands, keeping the storage.
func (b *CommandBuffer) Clear() {
	b.cmds = b.cmds[:0]
}
