package pdf

import (
	"context"
	"time"
)

// Method is a named capability exposed by a driver instance.
type Method func(ctx context.Context, args ...any) (any, error)

// MethodSet maps member names to driver capabilities.
type MethodSet map[string]Method

// Lookup returns the method registered under name.
func (m MethodSet) Lookup(name string) (Method, bool) {
	if m == nil || name == "" {
		return nil, false
	}
	method, ok := m[name]
	if !ok || method == nil {
		return nil, false
	}
	return method, true
}

// Names returns the member names in the set.
func (m MethodSet) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// Driver is an initialized PDF library instance.
//
// The adapter never inspects a driver beyond the members it declares here;
// every call the caller makes by name is resolved against this set.
type Driver interface {
	Methods() MethodSet
}

// Constructor builds a driver instance from opaque constructor arguments.
type Constructor func(ctx context.Context, args ...any) (Driver, error)

// ResultKind tags a dispatch result.
type ResultKind int

const (
	// ResultValue carries a non-empty value returned by the driver or accessor.
	ResultValue ResultKind = iota
	// ResultSelf signals an empty driver result; Value holds the adapter.
	ResultSelf
	// ResultNotFound is the sentinel for a non-verbose accessor miss.
	ResultNotFound
)

func (k ResultKind) String() string {
	switch k {
	case ResultValue:
		return "value"
	case ResultSelf:
		return "self"
	case ResultNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the outcome of Adapter.Dispatch.
type Result struct {
	Kind  ResultKind
	Value any
}

// Adapter returns the adapter for chained results.
func (r Result) Adapter() (*Adapter, bool) {
	if r.Kind != ResultSelf {
		return nil, false
	}
	a, ok := r.Value.(*Adapter)
	return a, ok
}

// Found reports whether the result is not the soft-miss sentinel.
func (r Result) Found() bool {
	return r.Kind != ResultNotFound
}

// ArtifactMeta describes a rendered PDF artifact.
type ArtifactMeta struct {
	Driver      string    `json:"driver,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// ArtifactRef identifies a stored artifact.
type ArtifactRef struct {
	Key  string       `json:"key"`
	Meta ArtifactMeta `json:"meta"`
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
