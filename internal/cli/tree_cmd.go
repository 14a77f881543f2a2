package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTreeCmd(app *App) *cobra.Command {
	var depth int
	var showIDs, asJSON bool
	var view *viewFlag

	cmd := &cobra.Command{
		Use:   "tree SESSION",
		Short: "Show the cost tree of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}

			res, err := app.Costs.GetCostTree(ctx, id, view.view)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			session, err := app.Costs.GetSession(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s  %s\n\n",
				formatter.Bold(session.PartNumber),
				formatter.Dim(session.SupplierName),
				formatter.Dim(string(res.View)))
			fmt.Fprint(out, formatter.RenderCostTree(res.Tree, formatter.TreeOptions{
				MaxDepth: depth,
				ShowIDs:  showIDs,
			}))
			return nil
		},
	}

	view = addViewFlag(cmd.Flags())
	cmd.Flags().IntVar(&depth, "depth", 0, "Deepest level to print (0 prints all)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show item IDs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")

	return cmd
}

func newBreakdownCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown SESSION",
		Short: "Show setup, labor and burden costs per process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}

			rows, err := app.Costs.GetProcessBreakdown(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Process breakdown"))
			fmt.Fprint(out, formatter.FormatBreakdown(rows))
			return nil
		},
	}
}
