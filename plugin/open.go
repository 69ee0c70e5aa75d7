//go:build (linux || darwin || freebsd) && cgo

package plugin

import (
	"fmt"
	"path/filepath"
	"strings"

	goplugin "plugin"
)

// goResolver adapts a loaded Go plugin to Resolver.
type goResolver struct {
	p *goplugin.Plugin
}

func (r goResolver) Lookup(symbol string) (any, error) {
	sym, err := r.p.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return any(sym), nil
}

// Open loads the shared object at path with the Go plugin loader and binds
// its entry points. The library name used in errors is the file name
// without extension.
func Open(path string) (*Binding, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: open %s: %w", path, err)
	}
	return Load(name, goResolver{p: p})
}
