package pdf

import (
	"context"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindUnknownDriver, "no driver", nil), errorslib.CategoryNotFound, "unknown_driver"},
		{NewError(KindUnknownMethod, "no method", nil), errorslib.CategoryNotFound, "unknown_method"},
		{NewError(KindUnknownField, "no field", nil), errorslib.CategoryNotFound, "unknown_field"},
		{NewError(KindMissingResource, "no file", nil), errorslib.CategoryInternal, "missing_resource"},
		{NewError(KindAccess, "private", nil), errorslib.CategoryAuthz, "access"},
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindDriverInit, "ctor", nil), errorslib.CategoryOperation, "driver_init"},
		{NewError(KindNotInitialized, "early", nil), errorslib.CategoryOperation, "not_initialized"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestIsKind(t *testing.T) {
	err := NewError(KindAccess, "private", nil)
	if !IsKind(err, KindAccess) {
		t.Fatalf("expected access kind")
	}
	if IsKind(nil, KindAccess) {
		t.Fatalf("expected nil error to match no kind")
	}
}
