package pdfhtml

import (
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// loadTemplate renders a pongo2 template source with an optional context
// map and loads the result as the document HTML.
func (d *Document) loadTemplate(ctx context.Context, args ...any) (any, error) {
	source, err := stringArg(args, 0, "loadTemplate requires a template source")
	if err != nil {
		return nil, err
	}
	return nil, d.executeTemplate(source, args[1:])
}

func (d *Document) loadTemplateFile(ctx context.Context, args ...any) (any, error) {
	name, err := stringArg(args, 0, "loadTemplateFile requires a path")
	if err != nil {
		return nil, err
	}
	source, err := afero.ReadFile(d.fs, name)
	if err != nil {
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("template file %q could not be read", name), err)
	}
	return nil, d.executeTemplate(string(source), args[1:])
}

func (d *Document) executeTemplate(source string, rest []any) error {
	data := pongo2.Context{}
	if len(rest) > 0 && rest[0] != nil {
		values, err := cast.ToStringMapE(rest[0])
		if err != nil {
			return pdf.NewError(pdf.KindValidation, "template context must be a map", err)
		}
		data = pongo2.Context(values)
	}

	tpl, err := pongo2.FromString(source)
	if err != nil {
		return pdf.NewError(pdf.KindValidation, "template parse failed", err)
	}
	out, err := tpl.ExecuteBytes(data)
	if err != nil {
		return pdf.NewError(pdf.KindValidation, "template execute failed", err)
	}
	return d.setHTML(out)
}
