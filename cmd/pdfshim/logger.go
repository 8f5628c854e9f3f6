package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/goliatone/go-pdf/pdf"
)

// fiberLogger routes adapter logs through fiber's logger.
type fiberLogger struct{}

var _ pdf.Logger = fiberLogger{}

func (fiberLogger) Debugf(format string, args ...any) { log.Debugf(format, args...) }
func (fiberLogger) Infof(format string, args ...any)  { log.Infof(format, args...) }
func (fiberLogger) Errorf(format string, args ...any) { log.Errorf(format, args...) }

func configureLogging(debug bool) {
	if debug {
		log.SetLevel(log.LevelDebug)
		return
	}
	log.SetLevel(log.LevelInfo)
}
