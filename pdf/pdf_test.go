package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

type stubDriver struct {
	calls  []string
	title  string
	closed bool
}

func (d *stubDriver) Methods() MethodSet {
	return MethodSet{
		"doThing": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "doThing")
			return nil, nil
		},
		"setTitle": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "setTitle")
			if len(args) > 0 {
				d.title, _ = args[0].(string)
			}
			return false, nil
		},
		"getTitle": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "getTitle")
			return d.title, nil
		},
		"load_html": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "load_html")
			return nil, nil
		},
		"render": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "render")
			return nil, nil
		},
		"output": func(ctx context.Context, args ...any) (any, error) {
			d.calls = append(d.calls, "output")
			return []byte("%PDF-1.4"), nil
		},
		"fail": func(ctx context.Context, args ...any) (any, error) {
			return nil, errors.New("driver failure")
		},
	}
}

func (d *stubDriver) Close() error {
	d.closed = true
	return nil
}

func testConfig() Config {
	return Config{
		DefaultDriver: "stub",
		LibPath:       "/lib",
		Drivers: map[string]DriverConfig{
			"stub": {
				Includes: []string{"stub/config/lang.inc", "stub/stub.inc"},
				Class:    "Stub",
			},
			"partial": {
				Includes: []string{"stub/stub.inc", "partial/partial.inc"},
				Class:    "Stub",
			},
			"unlinked": {
				Includes: []string{"stub/stub.inc"},
				Class:    "Unlinked",
			},
		},
	}
}

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/lib/stub/config/lang.inc", "/lib/stub/stub.inc"} {
		if err := afero.WriteFile(fs, name, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fs
}

func testTypes(t *testing.T, instance *stubDriver) *TypeRegistry {
	t.Helper()
	types := NewTypeRegistry()
	err := types.Register("Stub", func(ctx context.Context, args ...any) (Driver, error) {
		return instance, nil
	})
	if err != nil {
		t.Fatalf("register type: %v", err)
	}
	return types
}

func newTestAdapter(t *testing.T, name string, opts ...Option) (*Adapter, *stubDriver) {
	t.Helper()
	instance := &stubDriver{}
	base := []Option{WithFS(testFS(t)), WithTypes(testTypes(t, instance))}
	a, err := Factory(testConfig(), name, append(base, opts...)...)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	return a, instance
}

func newReadyAdapter(t *testing.T, opts ...Option) (*Adapter, *stubDriver) {
	t.Helper()
	a, instance := newTestAdapter(t, "stub", opts...)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return a, instance
}
