package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/wbsline/internal/cli"
	"github.com/alexanderramin/wbsline/internal/config"
	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/repository"
	"github.com/alexanderramin/wbsline/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config path comes from $WBS_CONFIG, falling back to ~/.wbs/config.yaml.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	registry := prometheus.NewRegistry()
	observers := []service.UseCaseObserver{
		service.NewSlogUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(registry),
	}

	app := &cli.App{
		Projects: service.NewProjectService(repository.NewSQLiteProjectRepo(database), uow, observers...),
		Nodes: service.NewNodeService(
			repository.NewSQLiteFinalProductRepo(database),
			repository.NewSQLitePhaseRepo(database),
			repository.NewSQLiteDeliverableRepo(database),
			repository.NewSQLiteWorkPackageRepo(database),
			observers...,
		),
		Rollups:   service.NewRollupService(uow, observers...),
		Baselines: service.NewBaselineService(uow, observers...),
		Import:    service.NewImportService(uow, observers...),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	execErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
			logger.Warn("writing metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	return execErr
}

// newLogger builds the service logger on stderr. Auto format picks text on
// a terminal and JSON otherwise.
func newLogger(lc config.LogConfig) (*slog.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	opts := &slog.HandlerOptions{Level: level}
	if lc.ResolveFormat(tty) == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
