package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/cognivest/cognivest/internal/ai"
	"github.com/cognivest/cognivest/internal/config"
	"github.com/cognivest/cognivest/internal/filestore"
	"github.com/cognivest/cognivest/internal/handler"
	"github.com/cognivest/cognivest/internal/job"
	"github.com/cognivest/cognivest/internal/middleware"
	"github.com/cognivest/cognivest/internal/repo"
	"github.com/cognivest/cognivest/internal/schedule"
	"github.com/cognivest/cognivest/internal/service"
	"github.com/cognivest/cognivest/internal/source"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cognivest",
		Short: "cognivest backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run cognivest server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db, cfg.MigrationsDir); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sqlx.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	taskRepo := repo.NewTaskRepo(db)
	vectorRepo := repo.NewVectorRepo(db)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = map[string]interface{}{}
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	aiOpts := ai.Options{
		GenerateModel: cfg.AI.GenerateModel,
		EmbedModel:    cfg.AI.EmbedModel,
		EmbedDim:      cfg.AI.EmbedDim,
		Timeout:       time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		MaxInputChars: cfg.AI.MaxInputChars,
	}
	// One embedder instance serves ingestion and querying so both sides
	// of the similarity search use the same vector space.
	embedder := ai.NewEmbedder(aiProvider, aiOpts)
	generator := ai.NewGenerator(aiProvider, aiOpts)

	var archive filestore.Store
	if cfg.Archive.Type != "" {
		archive, err = filestore.New(cfg.Archive.Type, cfg.Archive.Data)
		if err != nil {
			return fmt.Errorf("init filing archive: %w", err)
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	avClient := source.NewAlphaVantageClient(httpClient, cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL)
	fetchers := []source.Fetcher{
		source.NewEdgarFetcher(httpClient, source.EdgarConfig{
			UserAgent:    cfg.Edgar.UserAgent,
			BaseURL:      cfg.Edgar.BaseURL,
			DataURL:      cfg.Edgar.DataURL,
			Forms:        cfg.Edgar.Forms,
			FilingLimit:  cfg.Edgar.FilingLimit,
			FetchDelay:   time.Duration(*cfg.Edgar.FetchDelayMS) * time.Millisecond,
			ChunkSize:    cfg.Ingest.ChunkSize,
			ChunkOverlap: *cfg.Ingest.ChunkOverlap,
		}, archive),
		source.NewSentimentNewsFetcher(avClient, cfg.AlphaVantage.NewsLimit),
		source.NewYahooNewsFetcher(httpClient, cfg.Yahoo.BaseURL, cfg.Edgar.UserAgent, cfg.Yahoo.NewsLimit),
	}

	ingestService, err := service.NewIngestService(taskRepo, vectorRepo, embedder, fetchers, service.IngestConfig{
		EmbedBatchSize: cfg.Ingest.EmbedBatchSize,
		BatchPause:     time.Duration(*cfg.Ingest.BatchPauseMS) * time.Millisecond,
		Workers:        cfg.Ingest.Workers,
	})
	if err != nil {
		return fmt.Errorf("init ingest service: %w", err)
	}
	defer ingestService.Close()
	answerService := service.NewAnswerService(vectorRepo, embedder, generator, cfg.Answer.TopK)
	stockService := service.NewStockService(avClient)

	deps := handler.RouterDeps{
		Ingest:       handler.NewIngestHandler(ingestService),
		Query:        handler.NewQueryHandler(answerService),
		Stocks:       handler.NewStockHandler(stockService),
		SubmitWindow: time.Duration(cfg.SubmitWindowSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewTaskCleanupJob(taskRepo, cfg.TaskCleanup.KeepDays), cfg.TaskCleanup.Cron); err != nil {
		return fmt.Errorf("schedule task cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
