package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/readlater/internal/config"
	"github.com/xxxsen/readlater/internal/fetch"
	"github.com/xxxsen/readlater/internal/handler"
	"github.com/xxxsen/readlater/internal/job"
	"github.com/xxxsen/readlater/internal/middleware"
	"github.com/xxxsen/readlater/internal/repo"
	"github.com/xxxsen/readlater/internal/schedule"
	"github.com/xxxsen/readlater/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "readlater",
		Short: "readlater article catalog server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run readlater server",
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

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
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

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
	)

	articleRepo := repo.NewArticleRepo(db)
	originRepo := repo.NewOriginRepo(db)
	tagRepo := repo.NewTagRepo(db)
	taggedRepo := repo.NewTaggedArticleRepo(db)
	jobRepo := repo.NewImportJobRepo(db)

	fetcher := fetch.NewClient(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		cfg.Fetch.UserAgent,
		int64(cfg.Fetch.MaxBodyKB)*1024,
	)
	tagService := service.NewTagService(tagRepo, taggedRepo)
	articleService := service.NewArticleService(articleRepo, originRepo, taggedRepo, tagService, cfg.OriginCacheSize)
	importService := service.NewImportService(jobRepo, articleService, fetcher)

	deps := handler.RouterDeps{
		Articles: handler.NewArticleHandler(articleService),
		Tags:     handler.NewTagHandler(tagService),
		Imports:  handler.NewImportHandler(importService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	scheduler := schedule.NewScheduler()
	cleanup := job.NewImportCleanupJob(jobRepo, time.Duration(cfg.Cleanup.JobMaxAgeHours)*time.Hour)
	if err := scheduler.AddJob(cleanup, cfg.Cleanup.Cron); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
