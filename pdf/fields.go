package pdf

import (
	"fmt"

	"github.com/spf13/cast"
)

// internalMarker prefixes adapter-internal fields.
const internalMarker = "_"

type internalField struct {
	get func(a *Adapter) any
	set func(a *Adapter, value any) error
}

var internalFields = map[string]internalField{
	"_lib_path": {
		get: func(a *Adapter) any { return a.libPath },
		set: func(a *Adapter, value any) error {
			root, err := cast.ToStringE(value)
			if err != nil {
				return NewError(KindValidation, "lib path must be a string", err)
			}
			a.libPath = root
			return nil
		},
	},
	"_driver_name":  {get: func(a *Adapter) any { return a.descriptor.Name }},
	"_driver_class": {get: func(a *Adapter) any { return a.descriptor.Type }},
	"_driver_instance": {get: func(a *Adapter) any {
		if st, ok := a.state.(ready); ok {
			return st.instance
		}
		return nil
	}},
	"_drivers": {get: func(a *Adapter) any { return append([]string(nil), a.drivers...) }},
}

// Field returns a public field value.
func (a *Adapter) Field(name string) (any, bool) {
	value, ok := a.fields[name]
	return value, ok
}

// accessField handles get_<field> and set_<field>. handled is false when the
// name is not an accessor.
func (a *Adapter) accessField(name string, args []any) (res Result, handled bool, err error) {
	if len(name) <= 4 || name[3] != '_' {
		return Result{}, false, nil
	}
	op, field := name[:3], name[4:]

	switch op {
	case "get":
		if value, ok := a.lookupField(field); ok {
			return Result{Kind: ResultValue, Value: value}, true, nil
		}
		return a.fieldMiss(field, verboseFlag(args, 0))
	case "set":
		if len(args) == 0 {
			return Result{}, true, NewError(KindValidation, fmt.Sprintf("%s requires a value", name), nil)
		}
		ok, err := a.assignField(field, args[0])
		if err != nil {
			return Result{}, true, err
		}
		if ok {
			return Result{Kind: ResultSelf, Value: a}, true, nil
		}
		return a.fieldMiss(field, verboseFlag(args, 1))
	default:
		return Result{}, false, nil
	}
}

func (a *Adapter) fieldMiss(field string, verbose bool) (Result, bool, error) {
	if verbose {
		return Result{}, true, NewError(KindUnknownField, fmt.Sprintf("field %q doesn't exist", field), nil)
	}
	return Result{Kind: ResultNotFound, Value: false}, true, nil
}

func (a *Adapter) lookupField(field string) (any, bool) {
	if value, ok := a.fields[field]; ok {
		return value, true
	}
	if internal, ok := internalFields[internalMarker+field]; ok {
		return internal.get(a), true
	}
	return nil, false
}

func (a *Adapter) assignField(field string, value any) (bool, error) {
	if _, ok := a.fields[field]; ok {
		a.fields[field] = value
		return true, nil
	}
	internal, ok := internalFields[internalMarker+field]
	if !ok {
		return false, nil
	}
	if internal.set == nil {
		return true, NewError(KindAccess, fmt.Sprintf("field %q is read-only", field), nil)
	}
	return true, internal.set(a, value)
}
