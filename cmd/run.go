package main

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/config"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/maxaizer/recruitment-funnel/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os/signal"
	"syscall"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve metrics, deliver notifications and refresh vacancy reports until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get(configPath)

	logger.Setup(parent, cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.dbContext.Migrate(); err != nil {
		return err
	}

	reporter, err := services.NewVacancyReporter(a.recruitments, services.NewVacancyTracker(a.graph),
		cfg.Pipeline.ReportSchedule)
	if err != nil {
		return err
	}
	reporter.Report(ctx)
	reporter.Start()

	<-ctx.Done()

	log.Info("Shutting down services...")
	reporter.Stop()
	log.Info("Services stopped.")
	return nil
}
