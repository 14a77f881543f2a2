package cli

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/costvar/internal/config"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/alexanderramin/costvar/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Costs   service.CostVarianceService
	Reports intelligence.ReportService

	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil falls back to a huh prompt.
	Confirm func(prompt string) (bool, error)
	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) reports() intelligence.ReportService {
	if a.Reports == nil {
		a.Reports = intelligence.NewReportService(nil)
	}
	return a.Reports
}

func (a *App) settings() *config.Config {
	if a.Config == nil {
		a.Config = config.DefaultConfig()
	}
	return a.Config
}

// NewRootCmd creates the top-level "costvar" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "costvar",
		Short:         "Supplier cost sheet variance analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newUploadCmd(app),
		newTreeCmd(app),
		newBreakdownCmd(app),
		newSessionsCmd(app),
		newExportCmd(app),
		newReportCmd(app),
		newBrowseCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}
