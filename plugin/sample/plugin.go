package sample

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/nativepass/plugin"
)

// LibraryName is the name the sample plugin is linked under.
const LibraryName = "NativePluginSample"

// EventDrawTriangle is the render event id that draws the colored triangle.
// Other ids are ignored.
const EventDrawTriangle int32 = 1

// Plugin errors.
var (
	// ErrNilGraphics is returned by Load without a host graphics interface.
	ErrNilGraphics = errors.New("sample: graphics is nil")

	// ErrAlreadyLoaded is returned by Load on a loaded plugin.
	ErrAlreadyLoaded = errors.New("sample: plugin already loaded")
)

// Plugin is the sample native rendering plugin. Its state (time value,
// render API, event handle) is shared by every caller of its entry
// points, the way a native library's globals are.
//
// Plugin is safe for concurrent use.
type Plugin struct {
	mu         sync.Mutex
	graphics   plugin.Graphics
	unregister func()
	api        RenderAPI
	time       float32
	eventFunc  plugin.EventFunc
	initErr    error

	createAPI func(gputypes.Backend) RenderAPI
}

// New creates an unloaded plugin.
func New() *Plugin {
	return &Plugin{createAPI: CreateRenderAPI}
}

// Load attaches the plugin to the host: it subscribes to device events and
// runs device initialization right away. An initialization failure unloads
// the plugin again and is returned.
func (p *Plugin) Load(g plugin.Graphics) error {
	if g == nil {
		return ErrNilGraphics
	}
	p.mu.Lock()
	if p.graphics != nil {
		p.mu.Unlock()
		return ErrAlreadyLoaded
	}
	p.graphics = g
	p.mu.Unlock()

	unregister := g.RegisterDeviceEventCallback(p.OnGraphicsDeviceEvent)
	p.mu.Lock()
	p.unregister = unregister
	p.mu.Unlock()

	p.OnGraphicsDeviceEvent(plugin.DeviceEventInitialize)

	p.mu.Lock()
	err := p.initErr
	p.mu.Unlock()
	if err != nil {
		p.Unload()
		return err
	}
	slogger().Info("sample: plugin loaded", "backend", g.Backend())
	return nil
}

// Unload detaches the plugin from the host. A live render API is shut
// down and the render event handle is revoked. Unload on an unloaded plugin
// is a no-op.
func (p *Plugin) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.graphics == nil {
		return
	}
	if p.unregister != nil {
		p.unregister()
		p.unregister = nil
	}
	p.shutdownLocked()
	p.graphics = nil
	slogger().Info("sample: plugin unloaded")
}

// OnGraphicsDeviceEvent handles device lifecycle events from the host.
//
// Initialize creates the render API for the device backend and issues a
// fresh render event handle. Shutdown destroys the API and revokes the
// handle, so handles from before a reinitialization go stale.
func (p *Plugin) OnGraphicsDeviceEvent(ev plugin.DeviceEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.graphics == nil {
		return
	}

	if ev == plugin.DeviceEventInitialize {
		p.initializeLocked()
		return
	}
	if ev == plugin.DeviceEventShutdown {
		p.shutdownLocked()
		return
	}
	if p.api != nil {
		if err := p.api.ProcessDeviceEvent(ev, p.graphics); err != nil {
			slogger().Warn("sample: device event failed", "event", ev, "err", err)
		}
	}
}

func (p *Plugin) initializeLocked() {
	if p.api != nil {
		return
	}
	p.initErr = nil
	backend := p.graphics.Backend()
	api := p.createAPI(backend)
	if api == nil {
		slogger().Warn("sample: unsupported graphics backend", "backend", backend)
	} else if err := api.ProcessDeviceEvent(plugin.DeviceEventInitialize, p.graphics); err != nil {
		p.initErr = fmt.Errorf("sample: initialize %v render API: %w", backend, err)
		return
	}
	p.api = api
	if p.eventFunc.IsNil() {
		p.eventFunc = plugin.NewEventFunc(p.onRenderEvent)
	}
}

func (p *Plugin) shutdownLocked() {
	if p.api != nil {
		if err := p.api.ProcessDeviceEvent(plugin.DeviceEventShutdown, p.graphics); err != nil {
			slogger().Warn("sample: shutdown failed", "err", err)
		}
		p.api = nil
	}
	plugin.Revoke(p.eventFunc)
	p.eventFunc = plugin.EventFunc{}
}

// SetTimeFromUnity stores t for the triangle rotation.
func (p *Plugin) SetTimeFromUnity(t float32) {
	p.mu.Lock()
	p.time = t
	p.mu.Unlock()
	slogger().Info("sample: SetTimeFromUnity", "t", t)
}

// GetRenderEventFunc returns the render event handle, or the nil handle
// while the plugin is not initialized.
func (p *Plugin) GetRenderEventFunc() plugin.EventFunc {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eventFunc
}

// Time returns the last value passed to SetTimeFromUnity.
func (p *Plugin) Time() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

// RenderAPI returns the live render API, or nil.
func (p *Plugin) RenderAPI() RenderAPI {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.api
}

// Symbols returns the plugin's exported entry points for plugin.Load.
func (p *Plugin) Symbols() plugin.Symbols {
	return plugin.Symbols{
		plugin.SymbolSetTime:            p.SetTimeFromUnity,
		plugin.SymbolGetRenderEventFunc: p.GetRenderEventFunc,
	}
}

// onRenderEvent runs on the host's rendering goroutine when a command
// buffer carrying the plugin's handle is submitted.
func (p *Plugin) onRenderEvent(eventID int32) {
	p.mu.Lock()
	api, t := p.api, p.time
	p.mu.Unlock()

	// Unknown or unsupported graphics device type? Do nothing.
	if api == nil {
		return
	}
	if eventID == EventDrawTriangle {
		api.DrawColoredTriangle(t)
	}
}
