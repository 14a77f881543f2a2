package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alexanderramin/costvar/internal/exporter"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var output string
	format := formatXLSX
	var view *viewFlag

	cmd := &cobra.Command{
		Use:   "export SESSION",
		Short: "Write a session to an Excel workbook or PDF report",
		Long: "Export writes both tree views and a summary sheet to xlsx, or one\n" +
			"view as a PDF report. The default file name is derived from the part number.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			session, err := app.Costs.GetSession(ctx, id)
			if err != nil {
				return err
			}

			var doc []byte
			switch format {
			case formatPDF:
				res, err := app.Costs.GetCostTree(ctx, id, view.view)
				if err != nil {
					return err
				}
				if doc, err = exporter.RenderPDF(session, view.view, res.Tree); err != nil {
					return fmt.Errorf("rendering pdf: %w", err)
				}
			default:
				trees, err := exporter.LoadAllTrees(ctx, app.Costs, id)
				if err != nil {
					return err
				}
				var buf bytes.Buffer
				if err := exporter.WriteWorkbook(&buf, session, trees); err != nil {
					return fmt.Errorf("writing workbook: %w", err)
				}
				doc = buf.Bytes()
			}

			if output == "" {
				output = exporter.FileName(session, string(format))
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(doc))
			return nil
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "Output format: xlsx or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout")
	view = addViewFlag(cmd.Flags())

	return cmd
}
