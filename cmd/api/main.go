package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/Kahlain/bpmn-analysis/internal/adapters/http"
	"github.com/Kahlain/bpmn-analysis/internal/bootstrap"
	"github.com/Kahlain/bpmn-analysis/internal/config"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/export/excel"
	"github.com/Kahlain/bpmn-analysis/internal/infrastructure/export/markdown"
	"github.com/Kahlain/bpmn-analysis/internal/observability/logging"
	"github.com/Kahlain/bpmn-analysis/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.Repo,
		excel.New(),
		markdown.New(),
		metrics.NewHTTPServerMetrics("api"),
		cfg.APIRateLimitRPS,
		cfg.APIRateLimitBurst,
		cfg.MaxUploadBytes,
	).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
}
