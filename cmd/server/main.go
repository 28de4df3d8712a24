package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/cache"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/upload"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	if cfg.SeedOnStart {
		if err := database.Seed(ctx, db, logger); err != nil {
			logger.Fatal("database seed failed", zap.Error(err))
		}
	}

	// Redis is optional: a nil client turns the cache and the rate limiter
	// into pass-throughs.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable, caching and rate limiting disabled")
	}
	store := cache.NewStore(rdb, logger)

	uploadCfg := config.LoadUploadConfig(cfg.IsProduction())
	if cfg.IsProduction() && uploadCfg.Backend == config.UploadBackendLocal {
		logger.Warn("incomplete S3 credentials, posters fall back to local disk")
	}
	posters, err := upload.NewStore(ctx, uploadCfg, logger)
	if err != nil {
		logger.Fatal("poster storage init failed", zap.Error(err))
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	events := queue.NewPublisher(rabbitURL, logger)
	if events == nil {
		logger.Warn("rabbitmq not configured, catalog events disabled")
	} else {
		go queue.StartCatalogConsumer(rabbitURL)
	}

	movieRepo := repository.NewMovieRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	directorRepo := repository.NewDirectorRepo(db)

	movieSvc := service.NewMovieService(movieRepo, genreRepo, directorRepo, store, posters, events, logger)
	genreSvc := service.NewGenreService(genreRepo, movieRepo, store, events, logger)
	directorSvc := service.NewDirectorService(directorRepo, movieRepo, store, events, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	if uploadCfg.Backend == config.UploadBackendLocal {
		e.Static("/uploads/posters", uploadCfg.Local.Dir)
	}

	router.RegisterRoutes(e)
	router.RegisterCatalog(e,
		handler.NewMovieHandler(movieSvc),
		handler.NewGenreHandler(genreSvc),
		handler.NewDirectorHandler(directorSvc),
	)

	addr := ":" + cfg.Port
	logger.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
