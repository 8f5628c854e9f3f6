package pdf

import (
	"context"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

const initMethod = "init"

// privateMembers lists the adapter's own unexported operations. Reaching them
// through Dispatch is rejected.
var privateMembers = map[string]struct{}{
	"resolve_resource": {},
	"construct":        {},
	"invoke":           {},
	"access_field":     {},
	"lookup_field":     {},
	"assign_field":     {},
	"not_initialized":  {},
}

// Dispatch routes a call by name. Resolution order: "init", an exact driver
// member, the camel-cased driver member, private adapter members (rejected),
// get_/set_ field accessors, and finally an unknown method error.
func (a *Adapter) Dispatch(ctx context.Context, name string, args ...any) (Result, error) {
	if a == nil {
		return Result{}, NewError(KindInternal, "adapter is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if name == initMethod {
		if err := a.Init(ctx, args...); err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultSelf, Value: a}, nil
	}

	if st, ok := a.state.(ready); ok {
		methods := st.instance.Methods()
		if method, ok := methods.Lookup(name); ok {
			return a.invoke(ctx, name, method, args)
		}
		if cameled := UnderscoreToCamel(name, false); cameled != name {
			if method, ok := methods.Lookup(cameled); ok {
				return a.invoke(ctx, cameled, method, args)
			}
		}
	}

	if _, private := privateMembers[name]; private {
		return Result{}, NewError(KindAccess, fmt.Sprintf("call to non-public method %q", name), nil)
	}

	if res, handled, err := a.accessField(name, args); handled {
		return res, err
	}

	if !a.Ready() {
		return Result{}, a.notInitialized()
	}
	return Result{}, NewError(KindUnknownMethod, fmt.Sprintf("method %q not found on driver %q", name, a.descriptor.Name), nil)
}

// Call dispatches and returns the raw value. Chained results return the adapter.
func (a *Adapter) Call(ctx context.Context, name string, args ...any) (any, error) {
	res, err := a.Dispatch(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (a *Adapter) invoke(ctx context.Context, name string, method Method, args []any) (Result, error) {
	a.logger.Debugf("pdf dispatch driver=%s method=%s args=%d", a.descriptor.Name, name, len(args))
	value, err := method(ctx, args...)
	if err != nil {
		return Result{}, err
	}
	if isEmpty(value) {
		return Result{Kind: ResultSelf, Value: a}, nil
	}
	return Result{Kind: ResultValue, Value: value}, nil
}

// isEmpty reports whether a driver result carries nothing worth returning.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case interface{ Len() int }:
		return v.Len() == 0
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return rv.IsZero()
	default:
		return false
	}
}

func verboseFlag(args []any, idx int) bool {
	if idx >= len(args) {
		return false
	}
	return cast.ToBool(args[idx])
}
