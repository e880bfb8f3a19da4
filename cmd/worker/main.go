package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kahlain/bpmn-analysis/internal/bootstrap"
	"github.com/Kahlain/bpmn-analysis/internal/config"
	"github.com/Kahlain/bpmn-analysis/internal/observability/logging"
	"github.com/Kahlain/bpmn-analysis/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics()
	metricsServer := &http.Server{
		Addr:         ":" + cfg.WorkerMetricsPort,
		Handler:      workerMetrics.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("worker metrics listening on :%s", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	runTimeout := time.Duration(cfg.RunTimeoutSeconds) * time.Second

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeRunRequested(ctx, func(handlerCtx context.Context, runID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, runTimeout)
		defer cancel()

		workerMetrics.RunStarted()
		start := time.Now()
		processErr := app.ProcessUC.ProcessRun(processCtx, runID)
		outcome := "success"
		if processErr != nil {
			outcome = "error"
		}
		workerMetrics.RunFinished(outcome, time.Since(start))
		if processErr == nil {
			if result, resultErr := app.Repo.GetResult(processCtx, runID); resultErr == nil {
				workerMetrics.ObserveDocuments(len(result.Documents), len(result.Failures))
			}
		}
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
