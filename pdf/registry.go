package pdf

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DriverDescriptor describes a driver's required resources and implementation type.
type DriverDescriptor struct {
	Name      string
	Resources []string
	Type      string
}

func (d DriverDescriptor) clone() DriverDescriptor {
	d.Resources = append([]string(nil), d.Resources...)
	return d
}

// DriverRegistry stores driver descriptors by name.
type DriverRegistry struct {
	mu      sync.RWMutex
	drivers map[string]DriverDescriptor
}

// NewDriverRegistry creates an empty registry.
func NewDriverRegistry() *DriverRegistry {
	return &DriverRegistry{drivers: make(map[string]DriverDescriptor)}
}

// Register adds a descriptor.
func (r *DriverRegistry) Register(desc DriverDescriptor) error {
	desc.Name = strings.TrimSpace(desc.Name)
	if desc.Name == "" {
		return NewError(KindValidation, "driver name is required", nil)
	}
	if strings.TrimSpace(desc.Type) == "" {
		return NewError(KindValidation, fmt.Sprintf("driver %q requires an implementation type", desc.Name), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.drivers[desc.Name]; exists {
		return NewError(KindValidation, fmt.Sprintf("driver %q already registered", desc.Name), nil)
	}
	r.drivers[desc.Name] = desc.clone()
	return nil
}

// Resolve returns the descriptor registered under name.
func (r *DriverRegistry) Resolve(name string) (DriverDescriptor, error) {
	r.mu.RLock()
	desc, ok := r.drivers[name]
	r.mu.RUnlock()
	if !ok {
		return DriverDescriptor{}, NewError(KindUnknownDriver, fmt.Sprintf("driver %q doesn't exist", name), nil)
	}
	return desc.clone(), nil
}

// Names returns the registered driver names, sorted.
func (r *DriverRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeRegistry links implementation type names to constructors.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]Constructor
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]Constructor)}
}

// Register links a constructor to an implementation type name.
func (r *TypeRegistry) Register(typeName string, ctor Constructor) error {
	if typeName == "" {
		return NewError(KindValidation, "implementation type name is required", nil)
	}
	if ctor == nil {
		return NewError(KindValidation, "constructor is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[typeName]; exists {
		return NewError(KindValidation, fmt.Sprintf("implementation %q already linked", typeName), nil)
	}
	r.types[typeName] = ctor
	return nil
}

// Resolve finds the constructor for an implementation type name.
func (r *TypeRegistry) Resolve(typeName string) (Constructor, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.types[typeName]
	return ctor, ok
}
