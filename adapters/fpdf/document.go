// Package pdffpdf links github.com/go-pdf/fpdf as a programmatic PDF driver.
package pdffpdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/cast"
)

// TypeFPDF is the implementation type name linked by Register.
const TypeFPDF = "FPDF"

const (
	defaultFontFamily = "Helvetica"
	defaultFontSize   = 12
	defaultLineHeight = 6
)

// Document is a programmatic PDF driver instance.
type Document struct {
	pdf     *fpdf.Fpdf
	fontSet bool
	output  []byte
}

// New builds a document. Arguments are orientation ("P" or "L"), unit
// ("pt", "mm", "cm", "in"), page size ("A4", "Letter", ...) and font
// directory, all optional.
func New(ctx context.Context, args ...any) (pdf.Driver, error) {
	params := []string{"P", "mm", "A4", ""}
	for i := range params {
		if i >= len(args) || args[i] == nil {
			continue
		}
		value, err := cast.ToStringE(args[i])
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("fpdf constructor argument %d must be a string", i), err)
		}
		if value != "" {
			params[i] = value
		}
	}

	doc := &Document{pdf: fpdf.New(params[0], params[1], params[2], params[3])}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Register links the fpdf driver under TypeFPDF.
func Register(types *pdf.TypeRegistry) error {
	if types == nil {
		return pdf.NewError(pdf.KindValidation, "type registry is required", nil)
	}
	return types.Register(TypeFPDF, New)
}

// Methods exposes the document's dispatchable members.
func (d *Document) Methods() pdf.MethodSet {
	return pdf.MethodSet{
		"addPage":    d.addPage,
		"setFont":    d.setFont,
		"setTitle":   d.setTitle,
		"setAuthor":  d.setAuthor,
		"setMargins": d.setMargins,
		"cell":       d.cell,
		"multiCell":  d.multiCell,
		"ln":         d.ln,
		"write":      d.write,
		"writeHtml":  d.writeHTML,
		"loadHtml":   d.writeHTML,
		"render":     d.render,
		"pageNo":     d.pageNo,
		"output":     d.outputBytes,
	}
}

func (d *Document) addPage(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	d.pdf.AddPage()
	return nil, d.check()
}

func (d *Document) setFont(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "setFont requires a family", nil)
	}
	family := cast.ToString(args[0])
	style := ""
	if len(args) > 1 {
		style = cast.ToString(args[1])
	}
	size := float64(0)
	if len(args) > 2 {
		var err error
		if size, err = cast.ToFloat64E(args[2]); err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "font size must be a number", err)
		}
	}
	d.pdf.SetFont(family, style, size)
	if err := d.check(); err != nil {
		return nil, err
	}
	d.fontSet = true
	return nil, nil
}

func (d *Document) setTitle(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "setTitle requires a title", nil)
	}
	d.pdf.SetTitle(cast.ToString(args[0]), true)
	return nil, nil
}

func (d *Document) setAuthor(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "setAuthor requires an author", nil)
	}
	d.pdf.SetAuthor(cast.ToString(args[0]), true)
	return nil, nil
}

// setMargins takes left, top and right margins in document units.
func (d *Document) setMargins(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	values, err := floats(args, 3, "setMargins")
	if err != nil {
		return nil, err
	}
	d.pdf.SetMargins(values[0], values[1], values[2])
	return nil, nil
}

func (d *Document) cell(ctx context.Context, args ...any) (any, error) {
	if len(args) < 3 {
		return nil, pdf.NewError(pdf.KindValidation, "cell requires width, height and text", nil)
	}
	size, err := floats(args[:2], 2, "cell")
	if err != nil {
		return nil, err
	}
	if err := d.ensureWritable(); err != nil {
		return nil, err
	}
	d.pdf.Cell(size[0], size[1], cast.ToString(args[2]))
	return nil, d.check()
}

func (d *Document) multiCell(ctx context.Context, args ...any) (any, error) {
	if len(args) < 3 {
		return nil, pdf.NewError(pdf.KindValidation, "multiCell requires width, height and text", nil)
	}
	size, err := floats(args[:2], 2, "multiCell")
	if err != nil {
		return nil, err
	}
	border, align := "", "L"
	if len(args) > 3 {
		border = cast.ToString(args[3])
	}
	if len(args) > 4 {
		align = cast.ToString(args[4])
	}
	if err := d.ensureWritable(); err != nil {
		return nil, err
	}
	d.pdf.MultiCell(size[0], size[1], cast.ToString(args[2]), border, align, false)
	return nil, d.check()
}

func (d *Document) ln(ctx context.Context, args ...any) (any, error) {
	if err := d.ensureOpen(); err != nil {
		return nil, err
	}
	height := float64(-1)
	if len(args) > 0 {
		var err error
		if height, err = cast.ToFloat64E(args[0]); err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "line height must be a number", err)
		}
	}
	d.pdf.Ln(height)
	return nil, nil
}

func (d *Document) write(ctx context.Context, args ...any) (any, error) {
	if len(args) < 2 {
		return nil, pdf.NewError(pdf.KindValidation, "write requires line height and text", nil)
	}
	height, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, pdf.NewError(pdf.KindValidation, "line height must be a number", err)
	}
	if err := d.ensureWritable(); err != nil {
		return nil, err
	}
	d.pdf.Write(height, cast.ToString(args[1]))
	return nil, d.check()
}

// writeHTML writes basic HTML (b, i, u, a, br, center) onto the current page.
func (d *Document) writeHTML(ctx context.Context, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "writeHtml requires html", nil)
	}
	source, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, pdf.NewError(pdf.KindValidation, "html must be a string", err)
	}
	if err := d.ensureWritable(); err != nil {
		return nil, err
	}
	html := d.pdf.HTMLBasicNew()
	html.Write(defaultLineHeight, strings.TrimSpace(source))
	return nil, d.check()
}

func (d *Document) render(ctx context.Context, args ...any) (any, error) {
	if d.pdf.PageNo() == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "document has no pages", nil)
	}
	if _, err := d.outputBytes(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Document) pageNo(ctx context.Context, args ...any) (any, error) {
	return d.pdf.PageNo(), nil
}

func (d *Document) outputBytes(ctx context.Context, args ...any) (any, error) {
	if d.output != nil {
		return d.output, nil
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, pdf.NewError(pdf.KindInternal, "fpdf output failed", err)
	}
	d.output = buf.Bytes()
	return d.output, nil
}

// ensureOpen rejects changes once output has been produced.
func (d *Document) ensureOpen() error {
	if d.output != nil {
		return pdf.NewError(pdf.KindValidation, "document already closed by output", nil)
	}
	return nil
}

func (d *Document) ensureWritable() error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if d.pdf.PageNo() == 0 {
		d.pdf.AddPage()
	}
	if !d.fontSet {
		d.pdf.SetFont(defaultFontFamily, "", defaultFontSize)
		d.fontSet = true
	}
	return d.check()
}

func (d *Document) check() error {
	if d.pdf.Err() {
		return pdf.NewError(pdf.KindInternal, "fpdf error", d.pdf.Error())
	}
	return nil
}

func floats(args []any, n int, method string) ([]float64, error) {
	if len(args) < n {
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("%s requires %d numeric arguments", method, n), nil)
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		value, err := cast.ToFloat64E(args[i])
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("%s argument %d must be a number", method, i), err)
		}
		values[i] = value
	}
	return values, nil
}
