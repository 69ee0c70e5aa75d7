package plugin

import (
	"errors"
	"fmt"
	"sync"
)

// Handle errors.
var (
	// ErrNilHandle is returned when dispatching the zero EventFunc.
	ErrNilHandle = errors.New("plugin: nil event func")

	// ErrStaleHandle is returned when dispatching an EventFunc that its
	// plugin has revoked (unloaded or reinitialized).
	ErrStaleHandle = errors.New("plugin: stale event func")
)

// RenderingEvent is the native-side callback behind an EventFunc.
// The eventID is an application-defined discriminator; the plugin decides
// what each value selects.
type RenderingEvent func(eventID int32)

// EventFunc is an opaque handle to a native rendering callback.
//
// The zero value is the nil handle. EventFunc values are comparable so they
// can be recorded into commands and checked in tests, but the address they
// carry is not exported and cannot be called directly.
type EventFunc struct {
	addr uintptr
}

// IsNil reports whether f is the nil handle.
func (f EventFunc) IsNil() bool {
	return f.addr == 0
}

// String returns a debug representation of the handle.
func (f EventFunc) String() string {
	if f.addr == 0 {
		return "EventFunc(nil)"
	}
	return fmt.Sprintf("EventFunc(%#x)", f.addr)
}

// handleBase keeps issued addresses away from small integers so an
// uninitialized handle never aliases a live one.
const handleBase uintptr = 0x1000

// handleTable maps issued addresses to callbacks. Addresses are never reused,
// so a revoked handle stays stale forever.
type handleTable struct {
	mu      sync.RWMutex
	next    uintptr
	entries map[uintptr]RenderingEvent
}

var handles = handleTable{
	next:    handleBase,
	entries: make(map[uintptr]RenderingEvent),
}

// NewEventFunc issues a new handle for cb. Native plugin implementations call
// this when they (re)initialize and hand the result out from
// GetRenderEventFunc. A nil cb yields the nil handle.
func NewEventFunc(cb RenderingEvent) EventFunc {
	if cb == nil {
		return EventFunc{}
	}
	handles.mu.Lock()
	handles.next++
	addr := handles.next
	handles.entries[addr] = cb
	handles.mu.Unlock()

	slogger().Debug("plugin: event func issued", "handle", EventFunc{addr: addr})
	return EventFunc{addr: addr}
}

// Revoke invalidates f. Later dispatches of f fail with ErrStaleHandle.
// Revoking the nil handle or an already revoked handle is a no-op.
func Revoke(f EventFunc) {
	if f.addr == 0 {
		return
	}
	handles.mu.Lock()
	_, ok := handles.entries[f.addr]
	delete(handles.entries, f.addr)
	handles.mu.Unlock()

	if ok {
		slogger().Debug("plugin: event func revoked", "handle", f)
	}
}

// Dispatch invokes the callback behind f with eventID.
//
// Dispatch is meant for the host's command executor only. The callback runs
// on the calling goroutine; whatever it does on the GPU, and whether that
// succeeds, is invisible to the caller.
func Dispatch(f EventFunc, eventID int32) error {
	if f.addr == 0 {
		return ErrNilHandle
	}
	handles.mu.RLock()
	cb, ok := handles.entries[f.addr]
	handles.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %v", ErrStaleHandle, f)
	}
	cb(eventID)
	return nil
}
