package pdf

import (
	"context"
	"fmt"
)

// RenderHTML runs load_html, render and output against any driver that
// exposes those members, returning the PDF bytes.
func RenderHTML(ctx context.Context, a *Adapter, html []byte) ([]byte, error) {
	if a == nil {
		return nil, NewError(KindInternal, "adapter is nil", nil)
	}
	if _, err := a.Dispatch(ctx, "load_html", string(html)); err != nil {
		return nil, err
	}
	if _, err := a.Dispatch(ctx, "render"); err != nil {
		return nil, err
	}
	res, err := a.Dispatch(ctx, "output")
	if err != nil {
		return nil, err
	}
	return OutputBytes(res)
}

// OutputBytes extracts PDF bytes from an output dispatch result.
func OutputBytes(res Result) ([]byte, error) {
	if res.Kind != ResultValue {
		return nil, NewError(KindInternal, "driver produced no output", nil)
	}
	switch v := res.Value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, NewError(KindInternal, fmt.Sprintf("driver output has unexpected type %T", res.Value), nil)
	}
}
