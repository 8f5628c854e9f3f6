package main

import (
	"path/filepath"

	pdffpdf "github.com/goliatone/go-pdf/adapters/fpdf"
	pdfhtml "github.com/goliatone/go-pdf/adapters/html"
	"github.com/goliatone/go-pdf/config"
	"github.com/goliatone/go-pdf/pdf"
)

// linkTypes registers every built-in implementation type. The returned
// cleanup releases the shared Chromium instance.
func linkTypes(cfg config.Config) (*pdf.TypeRegistry, func(), error) {
	types := pdf.NewTypeRegistry()
	docOpts := []pdfhtml.DocumentOption{
		pdfhtml.WithMaxHTMLBytes(cfg.Engine.MaxHTMLBytes),
		pdfhtml.WithDefaults(pdfhtml.Options{PageSize: cfg.Engine.PageSize}),
	}

	chromium := &pdfhtml.ChromiumEngine{
		BrowserPath: cfg.Engine.ChromiumPath,
		Headless:    cfg.Engine.Headless,
		Timeout:     cfg.Engine.Timeout,
		Args:        cfg.Engine.ChromiumArgs,
	}
	cleanup := func() {
		_ = chromium.Close()
	}

	wkhtmlPath := cfg.Engine.WKHTMLTOPDFPath
	if wkhtmlPath == "" {
		wkhtmlPath = filepath.Join(cfg.PDF.LibPath, "wkhtmltopdf", "bin", "wkhtmltopdf")
	}
	wkhtml := pdfhtml.WKHTMLTOPDFEngine{
		Command: wkhtmlPath,
		Timeout: cfg.Engine.Timeout,
	}

	if err := pdfhtml.Register(types, pdfhtml.TypeChromium, chromium, docOpts...); err != nil {
		return nil, cleanup, err
	}
	if err := pdfhtml.Register(types, pdfhtml.TypeWKHTMLTOPDF, wkhtml, docOpts...); err != nil {
		return nil, cleanup, err
	}
	if err := pdffpdf.Register(types); err != nil {
		return nil, cleanup, err
	}
	return types, cleanup, nil
}
