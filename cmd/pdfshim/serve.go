package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	pdfhttp "github.com/goliatone/go-pdf/adapters/http"
	storefs "github.com/goliatone/go-pdf/adapters/store/fs"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /pdf/:driver rendering over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, cleanup, err := linkTypes(appConfig)
		defer cleanup()
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             int(appConfig.Engine.MaxHTMLBytes),
		})
		app.Use(logger.New())

		handler := pdfhttp.NewHandler(pdfhttp.Config{
			PDF:      appConfig.PDF,
			Types:    types,
			Logger:   fiberLogger{},
			BasePath: appConfig.Server.BasePath,
			Store:    storefs.NewStore(appConfig.Store.Root),
		})
		handler.RegisterRoutes(app)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			_ = app.ShutdownWithContext(context.Background())
		}()

		addr := net.JoinHostPort(appConfig.Server.Host, appConfig.Server.Port)
		fiberLogger{}.Infof("pdfshim listening on %s", addr)
		return app.Listen(addr)
	},
}
