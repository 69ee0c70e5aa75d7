// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"slices"
)

// Renderer collects the passes of one frame and orders them by event.
type Renderer struct {
	queue []Pass
}

// EnqueuePass adds p to the current frame. A nil p is ignored.
func (r *Renderer) EnqueuePass(p Pass) {
	if p == nil {
		return
	}
	r.queue = append(r.queue, p)
}

// Len returns the number of enqueued passes.
func (r *Renderer) Len() int { return len(r.queue) }

// Passes returns the enqueued passes in execution order: ascending event,
// then enqueue order.
func (r *Renderer) Passes() []Pass {
	out := slices.Clone(r.queue)
	slices.SortStableFunc(out, func(a, b Pass) int {
		return cmp.Compare(a.Event(), b.Event())
	})
	return out
}

func (r *Renderer) reset() {
	clear(r.queue)
	r.queue = r.queue[:0]
}
