package plugin

import (
	"errors"
	"testing"
)

type fakeNative struct {
	times []float32
	fn    EventFunc
	gets  int
}

func (n *fakeNative) symbols() Symbols {
	return Symbols{
		SymbolSetTime: func(t float32) { n.times = append(n.times, t) },
		SymbolGetRenderEventFunc: func() EventFunc {
			n.gets++
			return n.fn
		},
	}
}

func TestLoadBindsEntryPoints(t *testing.T) {
	native := &fakeNative{fn: NewEventFunc(func(int32) {})}
	defer Revoke(native.fn)

	lib, err := Load("NativePluginSample", native.symbols())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if lib.Name() != "NativePluginSample" {
		t.Errorf("Name() = %q, want NativePluginSample", lib.Name())
	}

	lib.SetTimeFromUnity(1.23)
	if len(native.times) != 1 || native.times[0] != 1.23 {
		t.Errorf("native times = %v, want [1.23]", native.times)
	}
	if got := lib.GetRenderEventFunc(); got != native.fn {
		t.Errorf("GetRenderEventFunc() = %v, want %v", got, native.fn)
	}
	if native.gets != 1 {
		t.Errorf("native GetRenderEventFunc calls = %d, want 1", native.gets)
	}
}

func TestLoadAcceptsPointerSymbols(t *testing.T) {
	setTime := func(float32) {}
	getFunc := func() EventFunc { return EventFunc{} }
	_, err := Load("ptr", Symbols{
		SymbolSetTime:            &setTime,
		SymbolGetRenderEventFunc: &getFunc,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestNilBinding(t *testing.T) {
	var b *Binding
	if Linked(b) {
		t.Error("Linked(nil *Binding) = true, want false")
	}
	if Linked(nil) {
		t.Error("Linked(nil) = true, want false")
	}
	b.SetTimeFromUnity(1)
	if fn := b.GetRenderEventFunc(); !fn.IsNil() {
		t.Errorf("GetRenderEventFunc() on nil Binding = %v, want nil handle", fn)
	}

	bound, err := Load("bound", (&fakeNative{}).symbols())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !Linked(bound) {
		t.Error("Linked(loaded binding) = false, want true")
	}
}

func TestLoadLinkErrors(t *testing.T) {
	tests := []struct {
		name    string
		syms    Resolver
		symbol  string
		wantErr error
	}{
		{
			name:    "nil resolver",
			syms:    nil,
			symbol:  SymbolSetTime,
			wantErr: ErrUnresolvedSymbol,
		},
		{
			name:    "missing set time",
			syms:    Symbols{SymbolGetRenderEventFunc: func() EventFunc { return EventFunc{} }},
			symbol:  SymbolSetTime,
			wantErr: ErrUnresolvedSymbol,
		},
		{
			name:    "missing render event func",
			syms:    Symbols{SymbolSetTime: func(float32) {}},
			symbol:  SymbolGetRenderEventFunc,
			wantErr: ErrUnresolvedSymbol,
		},
		{
			name: "wrong set time signature",
			syms: Symbols{
				SymbolSetTime:            func(float64) {},
				SymbolGetRenderEventFunc: func() EventFunc { return EventFunc{} },
			},
			symbol:  SymbolSetTime,
			wantErr: ErrSymbolType,
		},
		{
			name: "handle returned as raw pointer",
			syms: Symbols{
				SymbolSetTime:            func(float32) {},
				SymbolGetRenderEventFunc: func() uintptr { return 0 },
			},
			symbol:  SymbolGetRenderEventFunc,
			wantErr: ErrSymbolType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Load("broken", tt.syms)
			if lib != nil {
				t.Errorf("Load() returned partial binding %v", lib)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			var le *LinkError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error %T is not *LinkError", err)
			}
			if le.Symbol != tt.symbol {
				t.Errorf("LinkError.Symbol = %q, want %q", le.Symbol, tt.symbol)
			}
			if le.Library != "broken" {
				t.Errorf("LinkError.Library = %q, want broken", le.Library)
			}
		})
	}
}

type failingResolver struct{}

func (failingResolver) Lookup(string) (any, error) {
	return nil, errors.New("dlsym: not found")
}

func TestLoadWrapsResolverErrors(t *testing.T) {
	_, err := Load("lib", failingResolver{})
	if !errors.Is(err, ErrUnresolvedSymbol) {
		t.Errorf("Load() error = %v, want ErrUnresolvedSymbol", err)
	}
}

func TestDeviceEventString(t *testing.T) {
	tests := []struct {
		ev   DeviceEvent
		want string
	}{
		{DeviceEventInitialize, "Initialize"},
		{DeviceEventShutdown, "Shutdown"},
		{DeviceEventBeforeReset, "BeforeReset"},
		{DeviceEventAfterReset, "AfterReset"},
		{DeviceEvent(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("DeviceEvent(%d).String() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
