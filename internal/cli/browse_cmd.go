package cli

import (
	"errors"

	"github.com/alexanderramin/costvar/internal/exporter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("browse needs an interactive terminal; use tree instead")

func newBrowseCmd(app *App) *cobra.Command {
	var view *viewFlag

	cmd := &cobra.Command{
		Use:   "browse SESSION",
		Short: "Explore a cost tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}

			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			session, err := app.Costs.GetSession(ctx, id)
			if err != nil {
				return err
			}
			trees, err := exporter.LoadAllTrees(ctx, app.Costs, id)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newBrowseModel(session, trees, view.view),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	view = addViewFlag(cmd.Flags())

	return cmd
}
