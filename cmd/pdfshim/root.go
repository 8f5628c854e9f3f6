package main

import (
	"github.com/goliatone/go-pdf/config"
	"github.com/spf13/cobra"
)

var (
	// configFile is set by the --config flag.
	configFile string
	flagLib    string
	flagDebug  bool

	// appConfig is loaded by PersistentPreRunE.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:           "pdfshim",
	Short:         "Render PDFs through interchangeable PDF drivers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if flagLib != "" {
			cfg.PDF.LibPath = flagLib
		}
		appConfig = cfg
		configureLogging(flagDebug)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagLib, "lib-path", "", "driver resource root (overrides pdf.lib_path)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
}
