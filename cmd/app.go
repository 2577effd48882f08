package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/recruitment-funnel/internal/clients/gemini"
	"github.com/maxaizer/recruitment-funnel/internal/clients/groq"
	"github.com/maxaizer/recruitment-funnel/internal/clients/rabbitmq"
	"github.com/maxaizer/recruitment-funnel/internal/clients/telegram"
	"github.com/maxaizer/recruitment-funnel/internal/config"
	"github.com/maxaizer/recruitment-funnel/internal/repositories"
	"github.com/maxaizer/recruitment-funnel/internal/resume"
	"github.com/maxaizer/recruitment-funnel/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"time"
)

const notifyTimeout = 10 * time.Second

// app holds the wired pipeline for one process.
type app struct {
	cfg          *config.Config
	dbContext    *repositories.DbContext
	graph        *repositories.StageGraph
	recruitments *repositories.Recruitments
	bus          EventBus.Bus
	engine       *services.PipelineEngine
	intake       *services.ResumeIntake
	notifier     *services.Notifier
	sessions     *services.PipelineSessions
	closers      []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	dbContext, err := repositories.NewDbContext(cfg.DB.Driver, cfg.DB.ConnectionString)
	if err != nil {
		return nil, errors.Wrap(err, "can't create db context")
	}

	a := &app{
		cfg:          cfg,
		dbContext:    dbContext,
		graph:        repositories.NewStageGraph(dbContext.DB),
		recruitments: repositories.NewRecruitmentsRepository(dbContext.DB),
		bus:          EventBus.New(),
		closers:      []func() error{dbContext.Close},
	}

	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	var err error
	vacancies := services.NewVacancyTracker(a.graph)

	a.engine, err = services.NewPipelineEngine(a.graph, vacancies, services.NewManagerGate(), a.bus,
		a.recruitments, repositories.NewSkillZonesRepository(a.dbContext.DB))
	if err != nil {
		return errors.Wrap(err, "can't create pipeline engine")
	}

	parser, err := a.newParser(ctx)
	if err != nil {
		return errors.Wrap(err, "can't create résumé parser")
	}

	a.intake, err = services.NewResumeIntake(repositories.NewResumesRepository(a.dbContext.DB), a.graph, a.engine,
		resume.NewRanker(a.cfg.Pipeline.RankingWorkers), parser)
	if err != nil {
		return errors.Wrap(err, "can't create résumé intake")
	}

	sinks, err := a.newSinks()
	if err != nil {
		return errors.Wrap(err, "can't create notification sinks")
	}

	a.notifier, err = services.NewNotifier(a.bus, notifyTimeout, sinks...)
	if err != nil {
		return errors.Wrap(err, "can't create notifier")
	}

	a.sessions = services.NewPipelineSessions(a.graph, a.cfg.Pipeline.SessionTTL)
	return nil
}

func (a *app) newParser(ctx context.Context) (services.DetailsParser, error) {
	cfg := a.cfg.Parser

	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.APIKey, gemini.Model(cfg.Model))
		if err != nil {
			return nil, err
		}
		client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		a.closers = append(a.closers, client.Close)
		return services.NewResumeParser(client, cfg.Timeout), nil
	case config.ProviderGroq:
		client := groq.NewClient(cfg.APIKey, cfg.Model, "")
		client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		return services.NewResumeParser(client, cfg.Timeout), nil
	default:
		log.Info("résumé parser is disabled, only layout autofill will be used")
		return nil, nil
	}
}

func (a *app) newSinks() ([]services.NotificationSink, error) {
	cfg := a.cfg.Notifier
	var sinks []services.NotificationSink

	if cfg.TelegramToken != "" {
		sink, err := telegram.NewSink(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	if cfg.AmqpURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.AmqpURL, cfg.AmqpExchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, publisher.Close)
		sinks = append(sinks, publisher)
	}

	if len(sinks) == 0 {
		log.Info("no notification sinks configured")
	}
	return sinks, nil
}

// Close waits for pending notifications and releases clients in reverse order.
func (a *app) Close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warnf("close failed: %v", err)
		}
	}
}

// withApp runs fn against a freshly wired pipeline and releases it afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(ctx, config.Get(configPath))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
