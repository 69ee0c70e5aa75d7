//go:build !((linux || darwin || freebsd) && cgo)

package plugin

import "fmt"

// Open is not available on this platform; use Load with an in-process
// Resolver instead.
func Open(path string) (*Binding, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}
