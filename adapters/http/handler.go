// Package pdfhttp exposes the pdf adapter over HTTP with fiber.
package pdfhttp

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	errorslib "github.com/goliatone/go-errors"
	storefs "github.com/goliatone/go-pdf/adapters/store/fs"
	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/afero"
)

// ArtifactStore persists rendered PDFs.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta pdf.ArtifactMeta) (pdf.ArtifactRef, error)
}

// Config configures the HTTP handler.
type Config struct {
	PDF      pdf.Config
	Types    *pdf.TypeRegistry
	FS       afero.Fs
	Logger   pdf.Logger
	BasePath string
	// Store keeps a copy of rendered PDFs when the request sets ?store=true.
	Store ArtifactStore
	// InitArgs are the constructor arguments passed to each driver's init.
	InitArgs map[string][]any
}

// Handler renders request bodies into PDFs.
type Handler struct {
	cfg Config
}

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewHandler creates a handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = pdf.NopLogger{}
	}
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/pdf"
	}
	return &Handler{cfg: cfg}
}

// RegisterRoutes registers the render routes on a fiber router.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	base := "/" + strings.Trim(h.cfg.BasePath, "/")
	r.Post(base, h.Render)
	r.Post(base+"/:driver", h.Render)
	r.Get(base+"/drivers", h.Drivers)
}

// Render builds an adapter for the requested driver and renders the HTML body.
func (h *Handler) Render(c *fiber.Ctx) error {
	driver := c.Params("driver")
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return writeError(c, pdf.NewError(pdf.KindValidation, "request body must contain html", nil))
	}

	a, err := pdf.Factory(h.cfg.PDF, driver,
		pdf.WithTypes(h.cfg.Types),
		pdf.WithFS(h.cfg.FS),
		pdf.WithLogger(h.cfg.Logger),
	)
	if err != nil {
		return writeError(c, err)
	}
	defer func() {
		_ = a.Close()
	}()

	ctx := c.UserContext()
	if err := a.Init(ctx, h.cfg.InitArgs[a.Name()]...); err != nil {
		h.cfg.Logger.Errorf("pdf http init failed driver=%s: %v", a.Name(), err)
		return writeError(c, err)
	}

	out, err := pdf.RenderHTML(ctx, a, body)
	if err != nil {
		h.cfg.Logger.Errorf("pdf http render failed driver=%s: %v", a.Name(), err)
		return writeError(c, err)
	}

	h.cfg.Logger.Infof("pdf http rendered driver=%s bytes=%d", a.Name(), len(out))
	if h.cfg.Store != nil && c.QueryBool("store") {
		ref, err := h.cfg.Store.Put(ctx, storefs.NewKey(a.Name()), bytes.NewReader(out), pdf.ArtifactMeta{
			Driver:   a.Name(),
			Filename: c.Query("filename"),
		})
		if err != nil {
			h.cfg.Logger.Errorf("pdf http store failed driver=%s: %v", a.Name(), err)
			return writeError(c, err)
		}
		c.Set("X-PDF-Artifact", ref.Key)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set("X-PDF-Driver", a.Name())
	if name := c.Query("filename"); name != "" {
		c.Attachment(name)
	}
	return c.Status(http.StatusOK).Send(out)
}

// Drivers lists configured driver names and the default.
func (h *Handler) Drivers(c *fiber.Ctx) error {
	registry, err := h.cfg.PDF.Registry()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"default": h.cfg.PDF.DefaultDriver,
		"drivers": registry.Names(),
	})
}

func writeError(c *fiber.Ctx, err error) error {
	ge := pdf.AsGoError(err)
	return c.Status(statusForError(ge)).JSON(ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case string(pdf.KindTimeout):
			return http.StatusGatewayTimeout
		case string(pdf.KindCanceled):
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
