package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/growth-report/internal/analytics"
	"github.com/AngelCh415/growth-report/internal/config"
	"github.com/AngelCh415/growth-report/internal/httpx"
	"github.com/AngelCh415/growth-report/internal/ingest"
	"github.com/AngelCh415/growth-report/internal/metrics"
	"github.com/AngelCh415/growth-report/internal/store"
	"github.com/AngelCh415/growth-report/internal/validity"
)

func main() {
	// .env es opcional
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	lists, err := config.LoadLists(cfg.ListsFile, cfg.Lists)
	if err != nil {
		logger.Error("lists error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	eng := analytics.NewEngine(lists.Professions, lists.NonPayingPlans, validity.NewClassifier(lists.OAuthSentinel, nil))
	etl := ingest.NewETL(cl, st, logger, cfg)
	mSvc := metrics.NewService(st, eng, logger, cfg.PeriodCount, reg)

	r := httpx.NewRouter(httpx.Deps{
		Log:            logger,
		ETL:            etl,
		Metrics:        mSvc,
		Registry:       reg,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.Int("professions", len(lists.Professions)))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
