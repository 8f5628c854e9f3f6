package pdf

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTypes sets the registry used to link implementation types.
func WithTypes(types *TypeRegistry) Option {
	return func(a *Adapter) {
		a.types = types
	}
}

// WithFS sets the filesystem used for resource checks.
func WithFS(fs afero.Fs) Option {
	return func(a *Adapter) {
		if fs != nil {
			a.fs = fs
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLibPath overrides the resource root from the configuration.
func WithLibPath(root string) Option {
	return func(a *Adapter) {
		a.libPath = root
	}
}

// WithField declares a public field reachable through get_/set_ accessors.
func WithField(name string, value any) Option {
	return func(a *Adapter) {
		a.fields[name] = value
	}
}

type adapterState interface {
	adapterState()
}

// uninitialized holds the linked constructor until Init supplies arguments.
type uninitialized struct {
	ctor Constructor
}

type ready struct {
	instance Driver
}

func (uninitialized) adapterState() {}
func (ready) adapterState()         {}

// Adapter forwards calls to the selected PDF driver.
//
// An Adapter is created uninitialized by Factory and becomes ready after a
// single Init (or a dispatched "init"). It is owned by one caller for the
// length of one request and is not safe for concurrent use.
type Adapter struct {
	descriptor DriverDescriptor
	drivers    []string
	libPath    string
	fs         afero.Fs
	types      *TypeRegistry
	logger     Logger
	fields     map[string]any
	state      adapterState
}

// Factory selects a driver, verifies its resources and links its
// implementation type. The returned adapter must be initialized before
// driver calls are forwarded.
func Factory(cfg Config, driverName string, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		libPath: cfg.LibPath,
		fs:      afero.NewOsFs(),
		logger:  NopLogger{},
		fields:  make(map[string]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	name := driverName
	if name == "" {
		name = cfg.DefaultDriver
	}
	desc, err := registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	for _, resource := range desc.Resources {
		if _, err := a.resolveResource(resource); err != nil {
			return nil, err
		}
	}

	ctor, ok := a.types.Resolve(desc.Type)
	if !ok {
		return nil, NewError(KindMissingResource, fmt.Sprintf("implementation %q for driver %q is not linked", desc.Type, desc.Name), nil)
	}

	a.descriptor = desc
	a.drivers = registry.Names()
	a.state = uninitialized{ctor: ctor}
	a.logger.Debugf("pdf adapter created driver=%s class=%s", desc.Name, desc.Type)
	return a, nil
}

// Init constructs the driver instance with the given constructor arguments.
// An adapter can be initialized once; later calls fail with KindDriverInit.
func (a *Adapter) Init(ctx context.Context, args ...any) error {
	if a == nil {
		return NewError(KindInternal, "adapter is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	switch st := a.state.(type) {
	case ready:
		return NewError(KindDriverInit, fmt.Sprintf("driver %q already initialized", a.descriptor.Name), nil)
	case uninitialized:
		instance, err := a.construct(ctx, st.ctor, args)
		if err != nil {
			a.logger.Errorf("pdf driver init failed driver=%s: %v", a.descriptor.Name, err)
			return err
		}
		a.state = ready{instance: instance}
		a.logger.Debugf("pdf driver initialized driver=%s args=%d", a.descriptor.Name, len(args))
		return nil
	default:
		return NewError(KindInternal, "adapter was not created by Factory", nil)
	}
}

// Close releases the driver instance when it holds resources.
func (a *Adapter) Close() error {
	if a == nil {
		return nil
	}
	st, ok := a.state.(ready)
	if !ok {
		return nil
	}
	if closer, ok := st.instance.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Name returns the selected driver name.
func (a *Adapter) Name() string {
	return a.descriptor.Name
}

// Descriptor returns a copy of the selected driver descriptor.
func (a *Adapter) Descriptor() DriverDescriptor {
	return a.descriptor.clone()
}

// LibPath returns the resource root.
func (a *Adapter) LibPath() string {
	return a.libPath
}

// Ready reports whether Init has completed.
func (a *Adapter) Ready() bool {
	if a == nil {
		return false
	}
	_, ok := a.state.(ready)
	return ok
}

// Driver returns the initialized driver instance.
func (a *Adapter) Driver() (Driver, error) {
	if a == nil {
		return nil, NewError(KindInternal, "adapter is nil", nil)
	}
	st, ok := a.state.(ready)
	if !ok {
		return nil, a.notInitialized()
	}
	return st.instance, nil
}

func (a *Adapter) notInitialized() error {
	return NewError(KindNotInitialized, fmt.Sprintf("driver %q is not initialized; call init first", a.descriptor.Name), nil)
}

func (a *Adapter) resolveResource(resource string) (string, error) {
	rel := path.Clean("/" + resource)
	if rel == "/" {
		return "", NewError(KindMissingResource, "resource path is empty", nil)
	}
	target := filepath.Join(a.libPath, filepath.FromSlash(rel[1:]))

	exists, err := afero.Exists(a.fs, target)
	if err != nil {
		return "", NewError(KindMissingResource, fmt.Sprintf("file '%s' could not be checked", target), err)
	}
	if !exists {
		return "", NewError(KindMissingResource, fmt.Sprintf("file '%s' doesn't exist", target), nil)
	}
	return target, nil
}

func (a *Adapter) construct(ctx context.Context, ctor Constructor, args []any) (instance Driver, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = NewError(KindDriverInit, fmt.Sprintf("driver %q constructor panicked", a.descriptor.Name), fmt.Errorf("%v", r))
		}
	}()

	instance, err = ctor(ctx, args...)
	if err != nil {
		return nil, NewError(KindDriverInit, fmt.Sprintf("driver %q init failed", a.descriptor.Name), err)
	}
	if instance == nil {
		return nil, NewError(KindDriverInit, fmt.Sprintf("driver %q constructor returned no instance", a.descriptor.Name), nil)
	}
	return instance, nil
}
