package pdfhtml

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/afero"
)

type captureEngine struct {
	last RenderRequest
	err  error
}

func (e *captureEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.last = req
	return []byte("%PDF-1.7"), nil
}

func newAdapter(t *testing.T, engine Engine, opts ...DocumentOption) *pdf.Adapter {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/lib/chromium/.linked", []byte("1"), 0o644); err != nil {
		t.Fatalf("write resource: %v", err)
	}
	types := pdf.NewTypeRegistry()
	if err := Register(types, TypeChromium, engine, opts...); err != nil {
		t.Fatalf("register: %v", err)
	}
	cfg := pdf.Config{
		DefaultDriver: "chromium",
		LibPath:       "/lib",
		Drivers: map[string]pdf.DriverConfig{
			"chromium": {Includes: []string{"chromium/.linked"}, Class: TypeChromium},
		},
	}
	a, err := pdf.Factory(cfg, "", pdf.WithFS(fs), pdf.WithTypes(types))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	return a
}

func TestDocument_RenderThroughAdapter(t *testing.T) {
	engine := &captureEngine{}
	a := newAdapter(t, engine)
	ctx := context.Background()

	if _, err := a.Dispatch(ctx, "init", "letter", "landscape"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := a.Dispatch(ctx, "set_margins", "10mm"); err != nil {
		t.Fatalf("set_margins: %v", err)
	}
	if _, err := a.Dispatch(ctx, "set_base_url", "https://assets.local/"); err != nil {
		t.Fatalf("set_base_url: %v", err)
	}

	out, err := pdf.RenderHTML(ctx, a, []byte("<p>invoice</p>"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "%PDF-1.7" {
		t.Fatalf("unexpected output %q", out)
	}

	opts := engine.last.Options
	if opts.PageSize != "LETTER" || opts.Landscape == nil || !*opts.Landscape {
		t.Fatalf("unexpected paper options: %+v", opts)
	}
	if opts.MarginTop != "10mm" || opts.MarginLeft != "10mm" {
		t.Fatalf("unexpected margins: %+v", opts)
	}
	if opts.BaseURL != "https://assets.local/" {
		t.Fatalf("unexpected base url %q", opts.BaseURL)
	}
	if string(engine.last.HTML) != "<p>invoice</p>" {
		t.Fatalf("unexpected html %q", engine.last.HTML)
	}
}

func TestDocument_InitRejectsBadPaper(t *testing.T) {
	a := newAdapter(t, &captureEngine{})
	if _, err := a.Dispatch(context.Background(), "init", "B9"); pdf.KindFromError(err) != pdf.KindDriverInit {
		t.Fatalf("expected driver_init, got %v", err)
	}
}

func TestDocument_LoadTemplate(t *testing.T) {
	engine := &captureEngine{}
	a := newAdapter(t, engine)
	ctx := context.Background()
	if err := a.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err := a.Dispatch(ctx, "load_template", "<h1>{{ title }}</h1>", map[string]any{"title": "Q3 report"})
	if err != nil {
		t.Fatalf("load_template: %v", err)
	}
	if _, err := a.Dispatch(ctx, "render"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(engine.last.HTML) != "<h1>Q3 report</h1>" {
		t.Fatalf("unexpected html %q", engine.last.HTML)
	}
}

func TestDocument_LoadHTMLFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/docs/page.html", []byte("<p>file</p>"), 0o644)
	engine := &captureEngine{}
	doc := NewDocument(engine, WithFS(fs))
	ctx := context.Background()

	if _, err := doc.loadHTMLFile(ctx, "/docs/page.html"); err != nil {
		t.Fatalf("loadHtmlFile: %v", err)
	}
	if _, err := doc.render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(engine.last.HTML) != "<p>file</p>" {
		t.Fatalf("unexpected html %q", engine.last.HTML)
	}
	if _, err := doc.loadHTMLFile(ctx, "/docs/missing.html"); pdf.KindFromError(err) != pdf.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocument_OutputBeforeRender(t *testing.T) {
	doc := NewDocument(&captureEngine{})
	if _, err := doc.outputBytes(context.Background()); pdf.KindFromError(err) != pdf.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := doc.render(context.Background()); pdf.KindFromError(err) != pdf.KindValidation {
		t.Fatalf("expected validation error for empty html, got %v", err)
	}
}

func TestDocument_MaxHTMLBytes(t *testing.T) {
	doc := NewDocument(&captureEngine{}, WithMaxHTMLBytes(4))
	if _, err := doc.loadHTML(context.Background(), "0123456789"); pdf.KindFromError(err) != pdf.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDocument_SetOption(t *testing.T) {
	doc := NewDocument(&captureEngine{})
	ctx := context.Background()

	if _, err := doc.setOption(ctx, "scale", "1.5"); err != nil {
		t.Fatalf("scale: %v", err)
	}
	if _, err := doc.setOption(ctx, "printBackground", false); err != nil {
		t.Fatalf("printBackground: %v", err)
	}
	if _, err := doc.setOption(ctx, "external_assets", "block"); err != nil {
		t.Fatalf("external_assets: %v", err)
	}
	if doc.options.Scale != 1.5 || *doc.options.PrintBackground || doc.options.ExternalAssetsPolicy != ExternalAssetsBlock {
		t.Fatalf("unexpected options: %+v", doc.options)
	}
	if _, err := doc.setOption(ctx, "dpi", 300); err == nil || !strings.Contains(err.Error(), "unknown option") {
		t.Fatalf("expected unknown option error, got %v", err)
	}
}

func TestDocument_GetPaper(t *testing.T) {
	a := newAdapter(t, &captureEngine{})
	ctx := context.Background()
	if err := a.Init(ctx, "a5"); err != nil {
		t.Fatalf("init: %v", err)
	}
	value, err := a.Call(ctx, "get_paper")
	if err != nil {
		t.Fatalf("get_paper: %v", err)
	}
	paper, _ := value.([]string)
	if len(paper) != 2 || paper[0] != "A5" || paper[1] != "portrait" {
		t.Fatalf("unexpected paper %v", value)
	}
}
