// Package app wires configuration, infrastructure and domains into a
// runnable HTTP application.
package app

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/adapter/outbound/gemini"
	"github.com/imagestudio/server/internal/adapter/outbound/redisstore"
	"github.com/imagestudio/server/internal/domain/gallery"
	"github.com/imagestudio/server/internal/domain/studio"
	"github.com/imagestudio/server/internal/infra/events"
	"github.com/imagestudio/server/internal/infra/persistence"
	ports "github.com/imagestudio/server/internal/ports/http"
	"github.com/imagestudio/server/internal/shared/cache"
	"github.com/imagestudio/server/internal/shared/config"
	"github.com/imagestudio/server/internal/shared/logger"
	"github.com/imagestudio/server/internal/shared/middleware"
	"github.com/imagestudio/server/internal/utils/metrics"
)

// App holds the wired application.
type App struct {
	config    *config.Config
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics
	eventBus  *events.Bus

	galleryDomain *gallery.Domain
	studioDomain  *studio.Domain
}

// New creates a new application instance.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("imagestudio"),
		eventBus:  events.NewBus(zapLog),
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	generator, err := gemini.New(ctx, cfg.Gemini.APIKey, gemini.Config{
		ImagenModel:     cfg.Gemini.ImagenModel,
		ImagenFastModel: cfg.Gemini.ImagenFastModel,
		EditModel:       cfg.Gemini.EditModel,
		RequestTimeout:  cfg.Gemini.RequestTimeout,
	}, zapLog)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	store := persistence.NewGalleryStore(
		redisstore.New(redisClient),
		cfg.Gallery.StorageKey,
		zapLog,
		app.metrics,
	)

	app.galleryDomain = gallery.NewDomain(store, app.eventBus, zapLog, app.metrics)
	if err := app.galleryDomain.Restore(ctx); err != nil {
		// A fresh gallery is better than no server.
		zapLog.Warn("gallery restore failed", zap.Error(err))
	}
	app.metrics.GalleryRecords.Set(float64(app.galleryDomain.Count()))

	app.studioDomain = studio.NewDomain(generator, app.galleryDomain, cfg.Gallery.MaxBatch, zapLog, app.metrics)

	app.router = app.setupRouter()
	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.zapLogger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.zapLogger))
	r.Use(middleware.Metrics(a.metrics))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = a.config.CORS.AllowOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID")
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	ports.NewStudioHandler(a.studioDomain).RegisterRoutes(api)
	ports.NewGalleryHandler(a.galleryDomain).RegisterRoutes(api)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.zapLogger.Warn("redis close failed", zap.Error(err))
		}
	}
	_ = a.zapLogger.Sync()
}
