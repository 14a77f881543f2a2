package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var prompt string
	var skipHighlights bool
	var view *viewFlag

	cmd := &cobra.Command{
		Use:   "report SESSION",
		Short: "Write a variance narrative for a session",
		Long: "Report prints a short headline with the main cost drivers, then\n" +
			"streams a Markdown narrative. Without a configured model the\n" +
			"narrative is built from the figures alone.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			rc, err := intelligence.LoadReportContext(ctx, app.Costs, id, view.view)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reports := app.reports()
			if !skipHighlights {
				writeHighlights(out, rc, reports.Highlights(ctx, rc))
			}

			var source intelligence.Source
			for chunk := range reports.StreamReport(ctx, rc, prompt) {
				if chunk.Err != nil {
					fmt.Fprintln(out)
					return fmt.Errorf("report interrupted: %w", chunk.Err)
				}
				source = chunk.Source
				fmt.Fprint(out, chunk.Text)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if source == intelligence.SourceDeterministic {
				fmt.Fprintln(out, formatter.Dim("\n(generated without a language model)"))
			}
			return nil
		},
	}

	view = addViewFlag(cmd.Flags())
	cmd.Flags().StringVar(&prompt, "prompt", "", "Replace the default report instructions")
	cmd.Flags().BoolVar(&skipHighlights, "no-highlights", false, "Skip the headline block")

	return cmd
}

func writeHighlights(w io.Writer, rc intelligence.ReportContext, h *intelligence.Highlights) {
	if h == nil {
		return
	}
	names := make(map[string]string, len(rc.TopOverruns)+len(rc.TopSavings))
	for _, n := range append(append([]intelligence.NodeSummary{}, rc.TopOverruns...), rc.TopSavings...) {
		names[n.ItemID] = n.ItemName
	}

	fmt.Fprintln(w, formatter.Bold(h.Headline))
	for _, id := range h.Drivers {
		label := id
		if name, ok := names[id]; ok {
			label = fmt.Sprintf("%s %s", name, formatter.Dim(id))
		}
		fmt.Fprintf(w, "  • %s\n", label)
	}
	fmt.Fprintln(w)
}
