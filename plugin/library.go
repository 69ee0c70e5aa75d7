package plugin

import (
	"errors"
	"fmt"
)

// Entry point names exported by a native rendering plugin.
const (
	SymbolSetTime            = "SetTimeFromUnity"
	SymbolGetRenderEventFunc = "GetRenderEventFunc"
)

// Linkage errors.
var (
	// ErrUnresolvedSymbol means a required entry point was not found.
	ErrUnresolvedSymbol = errors.New("plugin: unresolved symbol")

	// ErrSymbolType means an entry point was found with the wrong signature.
	ErrSymbolType = errors.New("plugin: symbol has wrong type")

	// ErrNotLinked is returned when a pass is built without a library.
	ErrNotLinked = errors.New("plugin: library not linked")

	// ErrUnsupported is returned by Open on platforms without plugin support.
	ErrUnsupported = errors.New("plugin: dynamic loading not supported on this platform")
)

// LinkError reports a failure to bind one entry point of a native library.
type LinkError struct {
	Library string
	Symbol  string
	Err     error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("plugin: link %s.%s: %v", e.Library, e.Symbol, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// Library is the native plugin ABI consumed by render passes.
type Library interface {
	// SetTimeFromUnity pushes a time value into the plugin's process-wide
	// state. It is fire-and-forget.
	SetTimeFromUnity(t float32)

	// GetRenderEventFunc returns the current rendering callback handle.
	// It must be cheap and free of side effects.
	GetRenderEventFunc() EventFunc
}

// Resolver looks up exported symbols of a loaded native library.
type Resolver interface {
	Lookup(symbol string) (any, error)
}

// Symbols is an in-process Resolver backed by a map of entry points.
// Values must be func(float32) for SymbolSetTime and func() EventFunc for
// SymbolGetRenderEventFunc.
type Symbols map[string]any

// Lookup implements Resolver.
func (s Symbols) Lookup(symbol string) (any, error) {
	v, ok := s[symbol]
	if !ok || v == nil {
		return nil, ErrUnresolvedSymbol
	}
	return v, nil
}

// Binding is a Library whose entry points have been resolved and verified.
type Binding struct {
	name    string
	setTime func(float32)
	getFunc func() EventFunc
}

// Load resolves the native entry points of the library called name.
// Any missing or mistyped symbol yields a *LinkError; no partial binding is
// returned.
func Load(name string, r Resolver) (*Binding, error) {
	if r == nil {
		return nil, &LinkError{Library: name, Symbol: SymbolSetTime, Err: ErrUnresolvedSymbol}
	}

	setTime, err := resolve[func(float32)](name, SymbolSetTime, r)
	if err != nil {
		return nil, err
	}
	getFunc, err := resolve[func() EventFunc](name, SymbolGetRenderEventFunc, r)
	if err != nil {
		return nil, err
	}

	slogger().Info("plugin: library linked", "library", name)
	return &Binding{name: name, setTime: setTime, getFunc: getFunc}, nil
}

// resolve looks up symbol and asserts it has type F. Go plugins return
// pointers for exported variables, so *F is accepted as well.
func resolve[F any](library, symbol string, r Resolver) (F, error) {
	var zero F
	v, err := r.Lookup(symbol)
	if err != nil {
		if !errors.Is(err, ErrUnresolvedSymbol) {
			err = fmt.Errorf("%w: %w", ErrUnresolvedSymbol, err)
		}
		return zero, &LinkError{Library: library, Symbol: symbol, Err: err}
	}
	switch fn := v.(type) {
	case F:
		return fn, nil
	case *F:
		if fn != nil {
			return *fn, nil
		}
	}
	return zero, &LinkError{
		Library: library,
		Symbol:  symbol,
		Err:     fmt.Errorf("%w: got %T", ErrSymbolType, v),
	}
}

// Name returns the library name given to Load.
func (b *Binding) Name() string { return b.name }

// SetTimeFromUnity implements Library. It does nothing on a nil Binding.
func (b *Binding) SetTimeFromUnity(t float32) {
	if b == nil {
		return
	}
	b.setTime(t)
}

// GetRenderEventFunc implements Library. A nil Binding returns the nil
// handle.
func (b *Binding) GetRenderEventFunc() EventFunc {
	if b == nil {
		return EventFunc{}
	}
	return b.getFunc()
}

// Linked reports whether lib is usable: neither a nil interface nor a nil
// *Binding.
func Linked(lib Library) bool {
	if lib == nil {
		return false
	}
	if b, ok := lib.(*Binding); ok && b == nil {
		return false
	}
	return true
}

var _ Library = (*Binding)(nil)
