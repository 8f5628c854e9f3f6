package pdf

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines adapter error kinds.
type ErrorKind string

const (
	KindUnknownDriver   ErrorKind = "unknown_driver"
	KindMissingResource ErrorKind = "missing_resource"
	KindDriverInit      ErrorKind = "driver_init"
	KindNotInitialized  ErrorKind = "not_initialized"
	KindAccess          ErrorKind = "access"
	KindUnknownField    ErrorKind = "unknown_field"
	KindUnknownMethod   ErrorKind = "unknown_method"
	KindValidation      ErrorKind = "validation"
	KindTimeout         ErrorKind = "timeout"
	KindCanceled        ErrorKind = "canceled"
	KindInternal        ErrorKind = "internal"
)

// PDFError wraps errors with a kind.
type PDFError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *PDFError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

// NewError creates a new adapter error.
func NewError(kind ErrorKind, msg string, err error) *PDFError {
	return &PDFError{Kind: kind, Msg: msg, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindFromError(err) == kind
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var pdfErr *PDFError
	if errors.As(err, &pdfErr) && pdfErr.Msg != "" {
		msg = pdfErr.Msg
	}

	switch kind {
	case KindUnknownDriver, KindUnknownMethod, KindUnknownField:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode(string(kind))
	case KindMissingResource:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode(string(kind))
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode(string(kind))
	case KindAccess:
		return errorslib.New(msg, errorslib.CategoryAuthz).WithTextCode(string(kind))
	case KindNotInitialized, KindDriverInit, KindTimeout, KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode(string(kind))
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode(string(KindInternal))
	}
}

// KindFromError maps an error to its adapter error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var pdfErr *PDFError
	if errors.As(err, &pdfErr) {
		return pdfErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
