package bootstrap

import (
	"context"
	"fmt"

	"github.com/Kahlain/bpmn-analysis/internal/config"
	"github.com/Kahlain/bpmn-analysis/internal/core/ports"
	"github.com/Kahlain/bpmn-analysis/internal/core/usecase"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/bpmn"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/categorize"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/normalize"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/queue/nats"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/repository/postgres"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/resilience"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.RunRepository

	IngestUC  ports.BatchIngestor
	ProcessUC ports.RunProcessor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	categorizer, err := loadCategorizer(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	ingestUC := usecase.NewUploadBatchUseCase(repo, storage, queue)
	processUC := usecase.NewAnalyzeRunUseCase(repo, storage, bpmn.NewExtractor(), normalize.New(), categorizer)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadCategorizer(taxonomyPath string) (ports.Categorizer, error) {
	if taxonomyPath == "" {
		return categorize.Default(), nil
	}
	return categorize.LoadRules(taxonomyPath)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
