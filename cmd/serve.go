package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/answer"
	"github.com/geospy/geospy-api/internal/api"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/metrics"
	"github.com/geospy/geospy-api/internal/recommend"
	"github.com/geospy/geospy-api/internal/service"
)

func NewServeCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scrape scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configFilePath)
		},
	}

	addConfigFlag(cmd, &configFilePath)
	return cmd
}

func runServe(configFilePath string) error {
	cfg, logger, err := bootstrap(configFilePath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("initializing database")
	dbConn, closeDB, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	completer, err := buildCompleter(cfg.AI, m, logger)
	if err != nil {
		return err
	}
	embedder, rdb, err := buildEmbedder(cfg, m, logger)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	fetcher, err := buildFetcher(cfg.Scraper)
	if err != nil {
		return err
	}

	orchestrator := crawler.NewOrchestrator(fetcher, cfg.Scraper.Orchestrator(), m, logger.Named("crawler"))
	scrapes := service.NewScrapeService(dbConn, orchestrator, logger.Named("scrape"))

	answers := service.NewAnswerService(dbConn, completer,
		answer.NewQueryEnhancer(completer, cfg.AI.EnhanceTimeout, logger.Named("enhancer")),
		answer.NewConceptExtractor(completer, logger.Named("concepts")),
		cfg.AI.Model, logger.Named("answers"))

	analyses := service.NewAnalysisService(dbConn,
		analysis.NewAnalyzer(cfg.Analysis, embedder, logger.Named("analysis")),
		recommend.NewGenerator(cfg.Recommend),
		logger.Named("analysis"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.Spec != "" {
		scheduler, err := crawler.NewScheduler(cfg.Scheduler.Spec, scrapes.ScrapeAll, logger.Named("scheduler"))
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Dependencies{
		DB:       dbConn,
		Auth:     cfg.Auth,
		Scrapes:  scrapes,
		Answers:  answers,
		Analyses: analyses,
		Metrics:  m,
		Gatherer: reg,
		Logger:   logger.Named("http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}
