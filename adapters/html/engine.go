package pdfhtml

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-pdf/pdf"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// RenderRequest contains HTML input and layout options for PDF engines.
type RenderRequest struct {
	HTML    []byte
	Options Options
}

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// WKHTMLTOPDFEngine invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// Render executes wkhtmltopdf using stdin/stdout for HTML/PDF.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	cmdPath := strings.TrimSpace(e.Command)
	if cmdPath == "" {
		cmdPath = "wkhtmltopdf"
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string{}, e.Args...)
	args = append(args, wkhtmlArgs(req.Options)...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(cmdCtx, cmdPath, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(injectBaseURL(req.HTML, req.Options.BaseURL))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, pdf.NewError(pdf.KindInternal, message, err)
	}
	return stdout.Bytes(), nil
}

func wkhtmlArgs(opts Options) []string {
	args := []string{"--quiet"}
	if opts.PageSize != "" {
		args = append(args, "--page-size", strings.ToUpper(opts.PageSize))
	}
	if opts.Landscape != nil && *opts.Landscape {
		args = append(args, "--orientation", "Landscape")
	}
	margins := []struct {
		flag  string
		value string
	}{
		{"--margin-top", opts.MarginTop},
		{"--margin-bottom", opts.MarginBottom},
		{"--margin-left", opts.MarginLeft},
		{"--margin-right", opts.MarginRight},
	}
	for _, m := range margins {
		if m.value != "" {
			args = append(args, m.flag, strings.ReplaceAll(m.value, " ", ""))
		}
	}
	if opts.PrintBackground != nil && !*opts.PrintBackground {
		args = append(args, "--no-background")
	}
	if opts.ExternalAssetsPolicy == ExternalAssetsBlock {
		args = append(args, "--disable-local-file-access", "--disable-external-links")
	}
	return args
}
