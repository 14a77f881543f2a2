package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/costvar/internal/cli"
	"github.com/alexanderramin/costvar/internal/config"
	"github.com/alexanderramin/costvar/internal/db"
	"github.com/alexanderramin/costvar/internal/intelligence"
	"github.com/alexanderramin/costvar/internal/llm"
	"github.com/alexanderramin/costvar/internal/repository"
	"github.com/alexanderramin/costvar/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	database, err := db.OpenDB(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Service use cases are logged only when enabled.
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.Log.Enabled {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	costs := service.NewCostVarianceService(
		repository.NewSQLiteSessionRepo(database),
		repository.NewSQLiteCostItemRepo(database),
		repository.NewSQLiteProcessBreakdownRepo(database),
		db.NewSQLiteUnitOfWork(database),
		observer,
	)

	// Without a model every report uses the deterministic fallback.
	var reportClient llm.LLMClient
	if llmCfg := cfg.LLMSettings(); llmCfg.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			llmObserver = llm.NewSlogObserver(logger)
		}
		reportClient = llm.NewOllamaClient(llmCfg, llmObserver)
	}

	app := &cli.App{
		Costs:      costs,
		Reports:    intelligence.NewReportService(reportClient),
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
