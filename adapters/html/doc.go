// Package pdfhtml provides HTML-to-PDF drivers for the pdf adapter.
//
// A Document collects HTML (raw, from a file, or rendered from a pongo2
// template), paper and margin settings, and converts it through a pluggable
// Engine (headless Chromium via chromedp, or wkhtmltopdf). Documents are
// linked into a pdf.TypeRegistry with Register and then driven by name
// through pdf.Adapter.Dispatch.
package pdfhtml
