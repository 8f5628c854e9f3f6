package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	storefs "github.com/goliatone/go-pdf/adapters/store/fs"
	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/cobra"
)

var (
	renderDriver   string
	renderHTML     string
	renderTemplate string
	renderData     string
	renderOut      string
	renderStore    bool
	renderInitArgs []string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an HTML file or pongo2 template to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (renderHTML == "") == (renderTemplate == "") {
			return fmt.Errorf("exactly one of --html or --template is required")
		}
		if renderOut == "" && !renderStore {
			return fmt.Errorf("one of --out or --store is required")
		}

		types, cleanup, err := linkTypes(appConfig)
		defer cleanup()
		if err != nil {
			return err
		}

		a, err := pdf.Factory(appConfig.PDF, renderDriver, pdf.WithTypes(types), pdf.WithLogger(fiberLogger{}))
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		initArgs := make([]any, len(renderInitArgs))
		for i, arg := range renderInitArgs {
			initArgs[i] = arg
		}
		if _, err := a.Dispatch(ctx, "init", initArgs...); err != nil {
			return err
		}

		out, err := renderDocument(cmd, a)
		if err != nil {
			return err
		}

		if renderOut != "" {
			if err := os.WriteFile(renderOut, out, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(out), renderOut)
		}
		if renderStore {
			store := storefs.NewStore(appConfig.Store.Root)
			ref, err := store.Put(ctx, storefs.NewKey(a.Name()), bytes.NewReader(out), pdf.ArtifactMeta{Driver: a.Name()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s (%d bytes)\n", ref.Key, ref.Meta.Size)
		}
		return nil
	},
}

func renderDocument(cmd *cobra.Command, a *pdf.Adapter) ([]byte, error) {
	ctx := cmd.Context()
	if renderHTML != "" {
		html, err := os.ReadFile(renderHTML)
		if err != nil {
			return nil, err
		}
		return pdf.RenderHTML(ctx, a, html)
	}

	data := map[string]any{}
	if renderData != "" {
		raw, err := os.ReadFile(renderData)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode template data: %w", err)
		}
	}
	if _, err := a.Dispatch(ctx, "load_template_file", renderTemplate, data); err != nil {
		return nil, err
	}
	if _, err := a.Dispatch(ctx, "render"); err != nil {
		return nil, err
	}
	res, err := a.Dispatch(ctx, "output")
	if err != nil {
		return nil, err
	}
	return pdf.OutputBytes(res)
}

func init() {
	renderCmd.Flags().StringVar(&renderDriver, "driver", "", "driver name (default from config)")
	renderCmd.Flags().StringVar(&renderHTML, "html", "", "HTML file to render")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "pongo2 template file to render")
	renderCmd.Flags().StringVar(&renderData, "data", "", "JSON file with template context")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output PDF path")
	renderCmd.Flags().BoolVar(&renderStore, "store", false, "keep the PDF in the artifact store")
	renderCmd.Flags().StringSliceVar(&renderInitArgs, "init-arg", nil, "driver constructor argument (repeatable)")
}
