package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/cobra"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List configured drivers and whether their resources are present",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, cleanup, err := linkTypes(appConfig)
		defer cleanup()
		if err != nil {
			return err
		}
		registry, err := appConfig.PDF.Registry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCLASS\tDEFAULT\tSTATUS")
		for _, name := range registry.Names() {
			desc, _ := registry.Resolve(name)
			status := "ok"
			if _, err := pdf.Factory(appConfig.PDF, name, pdf.WithTypes(types)); err != nil {
				status = err.Error()
			}
			isDefault := ""
			if name == appConfig.PDF.DefaultDriver {
				isDefault = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, desc.Type, isDefault, status)
		}
		return w.Flush()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [driver]",
	Short: "Verify a driver's resources and implementation (default driver when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types, cleanup, err := linkTypes(appConfig)
		defer cleanup()
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		a, err := pdf.Factory(appConfig.PDF, name, pdf.WithTypes(types), pdf.WithLogger(fiberLogger{}))
		if err != nil {
			return err
		}
		desc := a.Descriptor()
		fmt.Fprintf(cmd.OutOrStdout(), "driver %s (%s) ok, %d resource(s) under %s\n", desc.Name, desc.Type, len(desc.Resources), a.LibPath())
		return nil
	},
}
