// Package config loads the pdf driver registry configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/viper"
)

const envPrefix = "PDF"

// Config holds the application configuration.
type Config struct {
	PDF    pdf.Config   `mapstructure:"pdf"`
	Engine EngineConfig `mapstructure:"engine"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

// EngineConfig holds HTML engine settings.
type EngineConfig struct {
	ChromiumPath    string        `mapstructure:"chromium_path"`
	ChromiumArgs    []string      `mapstructure:"chromium_args"`
	Headless        bool          `mapstructure:"headless"`
	WKHTMLTOPDFPath string        `mapstructure:"wkhtmltopdf_path"`
	Timeout         time.Duration `mapstructure:"timeout"`
	PageSize        string        `mapstructure:"page_size"`
	MaxHTMLBytes    int64         `mapstructure:"max_html_bytes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	BasePath string `mapstructure:"base_path"`
}

// StoreConfig holds artifact storage settings.
type StoreConfig struct {
	Root string `mapstructure:"root"`
}

// Defaults returns a Config with the stock driver registry.
func Defaults() Config {
	return Config{
		PDF: pdf.Config{
			DefaultDriver: "chromium",
			LibPath:       "./lib",
			Drivers: map[string]pdf.DriverConfig{
				"chromium": {
					Class: "Chromium",
				},
				"wkhtmltopdf": {
					Includes: []string{"wkhtmltopdf/bin/wkhtmltopdf"},
					Class:    "WKHTMLTOPDF",
				},
				"fpdf": {
					Class: "FPDF",
				},
			},
		},
		Engine: EngineConfig{
			Headless:     true,
			Timeout:      30 * time.Second,
			PageSize:     "A4",
			MaxHTMLBytes: 8 * 1024 * 1024,
		},
		Server: ServerConfig{
			Host:     "localhost",
			Port:     "8080",
			BasePath: "/pdf",
		},
		Store: StoreConfig{
			Root: "./artifacts",
		},
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults with environment overrides applied (PDF_ prefix,
// e.g. PDF_PDF_DEFAULT_DRIVER, PDF_SERVER_PORT).
func Load(path string) (Config, error) {
	defaults := Defaults()

	v := viper.New()
	setDefaults(v, defaults)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("pdf.drivers") || len(cfg.PDF.Drivers) == 0 {
		cfg.PDF.Drivers = defaults.PDF.Drivers
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("pdf.default_driver", cfg.PDF.DefaultDriver)
	v.SetDefault("pdf.lib_path", cfg.PDF.LibPath)
	v.SetDefault("engine.chromium_path", cfg.Engine.ChromiumPath)
	v.SetDefault("engine.chromium_args", cfg.Engine.ChromiumArgs)
	v.SetDefault("engine.headless", cfg.Engine.Headless)
	v.SetDefault("engine.wkhtmltopdf_path", cfg.Engine.WKHTMLTOPDFPath)
	v.SetDefault("engine.timeout", cfg.Engine.Timeout)
	v.SetDefault("engine.page_size", cfg.Engine.PageSize)
	v.SetDefault("engine.max_html_bytes", cfg.Engine.MaxHTMLBytes)
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.base_path", cfg.Server.BasePath)
	v.SetDefault("store.root", cfg.Store.Root)
}
