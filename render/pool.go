// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"sync"
)

// Pool errors.
var (
	// ErrPoolExhausted is returned by Get when every buffer is borrowed.
	ErrPoolExhausted = errors.New("render: command buffer pool exhausted")

	// ErrForeignBuffer is returned when a buffer is released to a pool it
	// was not borrowed from.
	ErrForeignBuffer = errors.New("render: command buffer belongs to another pool")
)

// DefaultPoolCapacity is the number of buffers a pool lends out at once when
// no capacity is given.
const DefaultPoolCapacity = 16

// BufferPool lends command buffers to passes for the duration of one
// Execute call.
type BufferPool interface {
	// Get borrows a cleared buffer.
	Get() (*CommandBuffer, error)

	// Release returns a buffer. Each borrowed buffer must be released
	// exactly once.
	Release(*CommandBuffer) error
}

// PoolStats reports pool usage counters.
type PoolStats struct {
	Gets        uint64
	Releases    uint64
	Failures    uint64
	Outstanding int
}

// CommandBufferPool is a bounded BufferPool shared by all passes of a
// pipeline. Released buffers are cleared and reused.
//
// CommandBufferPool is safe for concurrent use.
type CommandBufferPool struct {
	mu          sync.Mutex
	capacity    int
	free        []*CommandBuffer
	outstanding int
	stats       PoolStats
}

// NewCommandBufferPool creates a pool lending at most capacity buffers at a
// time. If capacity <= 0, DefaultPoolCapacity is used.
func NewCommandBufferPool(capacity int) *CommandBufferPool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &CommandBufferPool{capacity: capacity}
}

// Capacity returns the maximum number of outstanding buffers.
func (p *CommandBufferPool) Capacity() int { return p.capacity }

// Get implements BufferPool. It returns ErrPoolExhausted when capacity
// buffers are already borrowed.
func (p *CommandBufferPool) Get() (*CommandBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.outstanding >= p.capacity {
		p.stats.Failures++
		return nil, ErrPoolExhausted
	}

	var b *CommandBuffer
	if n := len(p.free); n > 0 {
		b = p.free[n-1]
		p.free = p.free[:n-1]
		b.released = false
	} else {
		b = &CommandBuffer{pool: p}
	}
	p.outstanding++
	p.stats.Gets++
	return b, nil
}

// Release implements BufferPool. Releasing a buffer twice returns
// ErrBufferReleased; releasing a buffer from another pool returns
// ErrForeignBuffer.
func (p *CommandBufferPool) Release(b *CommandBuffer) error {
	if b == nil {
		return ErrNilCommandBuffer
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if b.pool != p {
		return ErrForeignBuffer
	}
	if b.released {
		return ErrBufferReleased
	}
	b.Clear()
	b.name = ""
	b.released = true
	p.free = append(p.free, b)
	p.outstanding--
	p.stats.Releases++
	return nil
}

// Stats returns a snapshot of the pool counters.
func (p *CommandBufferPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Outstanding = p.outstanding
	return s
}

var _ BufferPool = (*CommandBufferPool)(nil)
