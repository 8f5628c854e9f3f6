package pdfhtml

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"
)

func chromeBinaryPath(t *testing.T) string {
	t.Helper()

	chromePath := os.Getenv("CHROME_BIN")
	if chromePath == "" {
		for _, candidate := range []string{"google-chrome", "chromium", "chromium-browser"} {
			if path, err := exec.LookPath(candidate); err == nil {
				chromePath = path
				break
			}
		}
	}
	if chromePath == "" {
		t.Skip("chromium binary not found; set CHROME_BIN to run this test")
	}

	return chromePath
}

func TestParseLengthInches(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1in", want: 1},
		{input: "25.4mm", want: 1},
		{input: "2.54cm", want: 1},
		{input: "72pt", want: 1},
		{input: "96px", want: 1},
		{input: "2", want: 2},
	}

	for _, tc := range tests {
		got, err := parseLengthInches(tc.input)
		if err != nil {
			t.Fatalf("parseLengthInches(%q): %v", tc.input, err)
		}
		if diff := got - tc.want; diff > 0.0001 || diff < -0.0001 {
			t.Fatalf("parseLengthInches(%q): expected %f, got %f", tc.input, tc.want, got)
		}
	}

	if _, err := parseLengthInches("3furlongs"); err == nil {
		t.Fatalf("expected unsupported unit error")
	}
}

func TestBuildPrintToPDFParams_PageSizeAndMargins(t *testing.T) {
	params, err := buildPrintToPDFParams(Options{
		PageSize:        "a4",
		PrintBackground: boolPtr(true),
		MarginTop:       "10mm",
		MarginLeft:      "1in",
	})
	if err != nil {
		t.Fatalf("buildPrintToPDFParams: %v", err)
	}
	if params.PaperWidth == 0 || params.PaperHeight == 0 {
		t.Fatalf("expected paper size to be set, got width=%f height=%f", params.PaperWidth, params.PaperHeight)
	}
	if params.MarginTop == 0 || params.MarginLeft != 1 {
		t.Fatalf("expected margins to be set, got top=%f left=%f", params.MarginTop, params.MarginLeft)
	}
	if !params.PrintBackground {
		t.Fatalf("expected print background true")
	}
	if params.PreferCSSPageSize {
		t.Fatalf("expected explicit page size to disable css page size")
	}
}

func TestBuildPrintToPDFParams_Validation(t *testing.T) {
	if _, err := buildPrintToPDFParams(Options{Scale: 3}); err == nil {
		t.Fatalf("expected scale error")
	}
	if _, err := buildPrintToPDFParams(Options{PageSize: "B9"}); err == nil {
		t.Fatalf("expected page size error")
	}
}

func TestInjectBaseURL(t *testing.T) {
	input := []byte("<html><head><title>Test</title></head><body>ok</body></html>")
	out := injectBaseURL(input, "https://assets.local/")
	if !bytes.Contains(out, []byte(`<head><base href="https://assets.local/">`)) {
		t.Fatalf("expected base tag to be injected, got %s", out)
	}

	bare := injectBaseURL([]byte("<html><body>ok</body></html>"), "https://assets.local/")
	if !bytes.Contains(bare, []byte("<html><head><base")) {
		t.Fatalf("expected head to be created, got %s", bare)
	}

	existing := []byte(`<head><base href="x"></head>`)
	if got := injectBaseURL(existing, "https://assets.local/"); !bytes.Equal(got, existing) {
		t.Fatalf("expected existing base tag to be kept, got %s", got)
	}
}

func TestWKHTMLArgs(t *testing.T) {
	args := wkhtmlArgs(Options{
		PageSize:  "letter",
		Landscape: boolPtr(true),
		MarginTop: "10 mm",
	})
	want := []string{"--quiet", "--page-size", "LETTER", "--orientation", "Landscape", "--margin-top", "10mm"}
	if len(args) != len(want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, args)
		}
	}
}

func TestChromiumEngine_Render_Smoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium smoke test in short mode")
	}

	engine := &ChromiumEngine{
		BrowserPath: chromeBinaryPath(t),
		Headless:    true,
		Timeout:     10 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() {
		_ = engine.Close()
	})

	out, err := engine.Render(context.Background(), RenderRequest{
		HTML:    []byte("<html><body><h1>Hello</h1></body></html>"),
		Options: Options{PageSize: "A4"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) < 4 || string(out[:4]) != "%PDF" {
		t.Fatalf("expected pdf output")
	}
}

func TestChromiumEngine_Render_BlocksExternalAssets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping chromium external asset test in short mode")
	}

	chromePath := chromeBinaryPath(t)
	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	engine := &ChromiumEngine{
		BrowserPath: chromePath,
		Headless:    true,
		Timeout:     10 * time.Second,
		Args:        []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	t.Cleanup(func() {
		_ = engine.Close()
	})

	html := []byte("<html><body><img src=\"" + server.URL + "/asset.png\"></body></html>")
	_, err := engine.Render(context.Background(), RenderRequest{
		HTML: html,
		Options: Options{
			PageSize:             "A4",
			ExternalAssetsPolicy: ExternalAssetsBlock,
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected external assets to be blocked, got %d request(s)", hits)
	}
}
