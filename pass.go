package nativepass

import (
	"fmt"

	"github.com/gogpu/nativepass/plugin"
	"github.com/gogpu/nativepass/render"
)

// Pass is the render step that hands control to the native plugin.
//
// Constructing a Pass pushes the configured time value into the plugin,
// exactly once. After that the pass only runs Execute, once per frame it is
// enqueued.
type Pass struct {
	name    string
	lib     plugin.Library
	event   render.PassEvent
	eventID int32
}

func newPass(lib plugin.Library, o options) *Pass {
	lib.SetTimeFromUnity(o.time)
	return &Pass{
		name:    o.name,
		lib:     lib,
		event:   o.event,
		eventID: o.eventID,
	}
}

// Name implements render.Pass.
func (p *Pass) Name() string { return p.name }

// Event implements render.Pass.
func (p *Pass) Event() render.PassEvent { return p.event }

// EventID returns the id recorded with every plugin event.
func (p *Pass) EventID() int32 { return p.eventID }

// Execute implements render.Pass. It borrows one command buffer, records a
// single plugin event with the handle the plugin returns right now, and
// schedules the buffer on ctx. The buffer goes back to the pool on every
// path out of Execute.
func (p *Pass) Execute(ctx *render.Context, _ *render.RenderingData) (err error) {
	pool := ctx.Pool()
	buf, err := pool.Get()
	if err != nil {
		return fmt.Errorf("nativepass: acquire command buffer: %w", err)
	}
	defer func() {
		if rerr := pool.Release(buf); rerr != nil && err == nil {
			err = fmt.Errorf("nativepass: release command buffer: %w", rerr)
		}
	}()
	buf.SetName(p.name)

	fn := p.lib.GetRenderEventFunc()
	if err := buf.IssuePluginEvent(fn, p.eventID); err != nil {
		return fmt.Errorf("nativepass: record plugin event: %w", err)
	}
	if err := ctx.ExecuteCommandBuffer(buf); err != nil {
		return fmt.Errorf("nativepass: execute command buffer: %w", err)
	}
	return nil
}

var _ render.Pass = (*Pass)(nil)
