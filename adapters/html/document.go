package pdfhtml

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Implementation type names linked by Register in the default setup.
const (
	TypeChromium    = "Chromium"
	TypeWKHTMLTOPDF = "WKHTMLTOPDF"
)

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithFS sets the filesystem used by loadHtmlFile and loadTemplateFile.
func WithFS(fs afero.Fs) DocumentOption {
	return func(d *Document) {
		if fs != nil {
			d.fs = fs
		}
	}
}

// WithMaxHTMLBytes bounds the HTML a document accepts.
func WithMaxHTMLBytes(max int64) DocumentOption {
	return func(d *Document) {
		d.maxHTMLBytes = max
	}
}

// WithDefaults sets the layout options a document starts with.
func WithDefaults(opts Options) DocumentOption {
	return func(d *Document) {
		d.options = opts
	}
}

// Document is an HTML-to-PDF driver instance.
type Document struct {
	engine       Engine
	fs           afero.Fs
	maxHTMLBytes int64
	options      Options
	html         []byte
	output       []byte
}

// NewDocument creates a document rendered by engine.
func NewDocument(engine Engine, opts ...DocumentOption) *Document {
	d := &Document{
		engine:       engine,
		fs:           afero.NewOsFs(),
		maxHTMLBytes: DefaultMaxHTMLBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// NewConstructor returns a constructor that links documents rendered by
// engine. Constructor arguments are an optional paper size and orientation.
func NewConstructor(engine Engine, opts ...DocumentOption) pdf.Constructor {
	return func(ctx context.Context, args ...any) (pdf.Driver, error) {
		if engine == nil {
			return nil, pdf.NewError(pdf.KindValidation, "html driver requires engine", nil)
		}
		doc := NewDocument(engine, opts...)
		if len(args) > 0 {
			if _, err := doc.setPaper(ctx, args...); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}
}

// Register links an engine-backed document under typeName.
func Register(types *pdf.TypeRegistry, typeName string, engine Engine, opts ...DocumentOption) error {
	if types == nil {
		return pdf.NewError(pdf.KindValidation, "type registry is required", nil)
	}
	return types.Register(typeName, NewConstructor(engine, opts...))
}

// Methods exposes the document's dispatchable members.
func (d *Document) Methods() pdf.MethodSet {
	return pdf.MethodSet{
		"loadHtml":         d.loadHTML,
		"loadHtmlFile":     d.loadHTMLFile,
		"loadTemplate":     d.loadTemplate,
		"loadTemplateFile": d.loadTemplateFile,
		"setPaper":         d.setPaper,
		"getPaper":         d.getPaper,
		"setMargins":       d.setMargins,
		"setBaseUrl":       d.setBaseURL,
		"setOption":        d.setOption,
		"render":           d.render,
		"output":           d.outputBytes,
	}
}

func (d *Document) loadHTML(ctx context.Context, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "loadHtml requires html", nil)
	}
	source, err := cast.ToStringE(args[0])
	if err != nil {
		return nil, pdf.NewError(pdf.KindValidation, "html must be a string", err)
	}
	return nil, d.setHTML([]byte(source))
}

func (d *Document) loadHTMLFile(ctx context.Context, args ...any) (any, error) {
	name, err := stringArg(args, 0, "loadHtmlFile requires a path")
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(d.fs, name)
	if err != nil {
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("html file %q could not be read", name), err)
	}
	return nil, d.setHTML(data)
}

func (d *Document) setHTML(data []byte) error {
	if d.maxHTMLBytes > 0 && int64(len(data)) > d.maxHTMLBytes {
		return pdf.NewError(pdf.KindValidation, "pdf document max html bytes exceeded", nil)
	}
	d.html = append(d.html[:0], data...)
	d.output = nil
	return nil
}

func (d *Document) setPaper(ctx context.Context, args ...any) (any, error) {
	size, err := stringArg(args, 0, "setPaper requires a size")
	if err != nil {
		return nil, err
	}
	if !validPageSize(size) {
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", size), nil)
	}
	d.options.PageSize = strings.ToUpper(size)

	if len(args) > 1 {
		orientation, err := cast.ToStringE(args[1])
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "orientation must be a string", err)
		}
		switch strings.ToLower(orientation) {
		case "", "portrait", "p":
			d.options.Landscape = boolPtr(false)
		case "landscape", "l":
			d.options.Landscape = boolPtr(true)
		default:
			return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("unsupported orientation: %s", orientation), nil)
		}
	}
	return nil, nil
}

func (d *Document) getPaper(ctx context.Context, args ...any) (any, error) {
	orientation := "portrait"
	if d.options.Landscape != nil && *d.options.Landscape {
		orientation = "landscape"
	}
	return []string{d.options.PageSize, orientation}, nil
}

// setMargins accepts one value for all sides or four in top, right, bottom,
// left order.
func (d *Document) setMargins(ctx context.Context, args ...any) (any, error) {
	values := make([]string, 0, len(args))
	for _, arg := range args {
		value, err := cast.ToStringE(arg)
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "margin must be a string", err)
		}
		if _, err := parseLengthInches(value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	switch len(values) {
	case 1:
		values = []string{values[0], values[0], values[0], values[0]}
	case 4:
	default:
		return nil, pdf.NewError(pdf.KindValidation, "setMargins takes one or four values", nil)
	}
	d.options.MarginTop = values[0]
	d.options.MarginRight = values[1]
	d.options.MarginBottom = values[2]
	d.options.MarginLeft = values[3]
	return nil, nil
}

func (d *Document) setBaseURL(ctx context.Context, args ...any) (any, error) {
	baseURL, err := stringArg(args, 0, "setBaseUrl requires a url")
	if err != nil {
		return nil, err
	}
	d.options.BaseURL = baseURL
	return nil, nil
}

func (d *Document) setOption(ctx context.Context, args ...any) (any, error) {
	name, err := stringArg(args, 0, "setOption requires a name")
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("option %q requires a value", name), nil)
	}
	value := args[1]

	switch pdf.CamelToUnderscore(name) {
	case "scale":
		scale, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "scale must be a number", err)
		}
		d.options.Scale = scale
	case "print_background":
		enabled, err := cast.ToBoolE(value)
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "print_background must be a bool", err)
		}
		d.options.PrintBackground = boolPtr(enabled)
	case "prefer_css_page_size":
		enabled, err := cast.ToBoolE(value)
		if err != nil {
			return nil, pdf.NewError(pdf.KindValidation, "prefer_css_page_size must be a bool", err)
		}
		d.options.PreferCSSPageSize = boolPtr(enabled)
	case "external_assets":
		policy := ExternalAssetsPolicy(strings.ToLower(cast.ToString(value)))
		if policy != ExternalAssetsAllow && policy != ExternalAssetsBlock {
			return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("unsupported external assets policy: %v", value), nil)
		}
		d.options.ExternalAssetsPolicy = policy
	default:
		return nil, pdf.NewError(pdf.KindValidation, fmt.Sprintf("unknown option %q", name), nil)
	}
	return nil, nil
}

func (d *Document) render(ctx context.Context, args ...any) (any, error) {
	if len(d.html) == 0 {
		return nil, pdf.NewError(pdf.KindValidation, "no html loaded", nil)
	}
	out, err := d.engine.Render(ctx, RenderRequest{
		HTML:    d.html,
		Options: d.options,
	})
	if err != nil {
		return nil, err
	}
	d.output = out
	return nil, nil
}

func (d *Document) outputBytes(ctx context.Context, args ...any) (any, error) {
	if d.output == nil {
		return nil, pdf.NewError(pdf.KindValidation, "document has not been rendered", nil)
	}
	return d.output, nil
}

func stringArg(args []any, idx int, missing string) (string, error) {
	if idx >= len(args) {
		return "", pdf.NewError(pdf.KindValidation, missing, nil)
	}
	value, err := cast.ToStringE(args[idx])
	if err != nil || strings.TrimSpace(value) == "" {
		return "", pdf.NewError(pdf.KindValidation, missing, err)
	}
	return value, nil
}
