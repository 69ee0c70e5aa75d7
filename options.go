package nativepass

import "github.com/gogpu/nativepass/render"

// Defaults used by NewFeature.
const (
	// DefaultTime is the time value pushed into the plugin when a pass is
	// constructed.
	DefaultTime float32 = 1.23

	// DefaultEventID is the event id recorded with each plugin event. Its
	// meaning is defined by the plugin.
	DefaultEventID int32 = 1

	// DefaultEvent is where the pass runs in the frame.
	DefaultEvent = render.AfterRenderingOpaques

	// DefaultName is the feature and pass debug name.
	DefaultName = "NativePluginEvent"
)

// Option configures a Feature during creation.
//
// Example:
//
//	f := nativepass.NewFeature(lib,
//	    nativepass.WithTime(0.5),
//	    nativepass.WithEvent(render.AfterRenderingSkybox),
//	)
type Option func(*options)

type options struct {
	name    string
	time    float32
	eventID int32
	event   render.PassEvent
}

func defaultOptions() options {
	return options{
		name:    DefaultName,
		time:    DefaultTime,
		eventID: DefaultEventID,
		event:   DefaultEvent,
	}
}

// WithName sets the debug name of the feature and its pass.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTime sets the time value pushed into the plugin on pass construction.
func WithTime(t float32) Option {
	return func(o *options) {
		o.time = t
	}
}

// WithEventID sets the event id passed to the plugin callback.
func WithEventID(id int32) Option {
	return func(o *options) {
		o.eventID = id
	}
}

// WithEvent sets the frame insertion point of the pass.
func WithEvent(e render.PassEvent) Option {
	return func(o *options) {
		o.event = e
	}
}
