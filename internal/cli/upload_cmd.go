package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Parse supplier cost sheets and store their cost trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var errs []error
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
					continue
				}

				name := filepath.Base(path)
				summary, err := app.Costs.ProcessUpload(ctx, content, name)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
					fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("✘ Failed"), name)
					continue
				}

				fmt.Fprint(out, formatter.FormatUploadResult(formatter.UploadResult{
					SessionID:     summary.SessionID,
					FileName:      name,
					PartNumber:    summary.PartNumber,
					SupplierName:  summary.SupplierName,
					Currency:      summary.Currency,
					TargetPrice:   summary.TargetPrice,
					SupplierPrice: summary.SupplierPrice,
					TotalVariance: summary.TotalVariance,
					VariancePct:   summary.VariancePct,
					DuplicateOf:   summary.DuplicateOf,
				}))
			}
			return errors.Join(errs...)
		},
	}
}
