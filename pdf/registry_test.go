package pdf

import (
	"context"
	"testing"
)

func TestDriverRegistry_CopiesDescriptors(t *testing.T) {
	registry := NewDriverRegistry()
	resources := []string{"a.inc"}
	if err := registry.Register(DriverDescriptor{Name: "a", Resources: resources, Type: "A"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resources[0] = "mutated.inc"

	desc, err := registry.Resolve("a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if desc.Resources[0] != "a.inc" {
		t.Fatalf("expected registered descriptor to be immutable, got %v", desc.Resources)
	}
	desc.Resources[0] = "again.inc"
	again, _ := registry.Resolve("a")
	if again.Resources[0] != "a.inc" {
		t.Fatalf("expected resolved copy, got %v", again.Resources)
	}
}

func TestDriverRegistry_Validation(t *testing.T) {
	registry := NewDriverRegistry()
	if err := registry.Register(DriverDescriptor{Type: "A"}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if err := registry.Register(DriverDescriptor{Name: "a"}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for missing type, got %v", err)
	}
	_ = registry.Register(DriverDescriptor{Name: "a", Type: "A"})
	if err := registry.Register(DriverDescriptor{Name: "a", Type: "A"}); KindFromError(err) != KindValidation {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestTypeRegistry(t *testing.T) {
	types := NewTypeRegistry()
	ctor := func(ctx context.Context, args ...any) (Driver, error) { return &stubDriver{}, nil }
	if err := types.Register("Stub", ctor); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := types.Register("Stub", ctor); KindFromError(err) != KindValidation {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, ok := types.Resolve("Stub"); !ok {
		t.Fatalf("expected Stub to resolve")
	}
	var empty *TypeRegistry
	if _, ok := empty.Resolve("Stub"); ok {
		t.Fatalf("expected nil registry to resolve nothing")
	}
}

func TestConfigRegistry(t *testing.T) {
	registry, err := testConfig().Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	names := registry.Names()
	if len(names) != 3 || names[0] != "partial" || names[2] != "unlinked" {
		t.Fatalf("unexpected names: %v", names)
	}
}
