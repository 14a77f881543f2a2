package cli

import (
	"fmt"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/alexanderramin/costvar/internal/service"
	"github.com/spf13/cobra"
)

func newSessionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "List, inspect and delete upload sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsShowCmd(app),
		newSessionsRemoveCmd(app),
	)

	return cmd
}

func newSessionsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Costs.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultSessionLimit,
		fmt.Sprintf("Maximum sessions to list (capped at %d)", service.MaxSessionLimit))

	return cmd
}

func newSessionsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION",
		Short: "Show the header of one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Costs.GetSession(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionDetail(s))
			return nil
		},
	}
}

func newSessionsRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm SESSION",
		Aliases: []string{"delete"},
		Short:   "Delete a session with its trees and breakdown",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveSessionID(ctx, app, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				s, err := app.Costs.GetSession(ctx, id)
				if err != nil {
					return err
				}
				ok, err := app.confirm(fmt.Sprintf("Delete session %s (%s)?", formatter.TruncID(s.ID), s.PartNumber))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			if err := app.Costs.DeleteSession(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted session %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}
