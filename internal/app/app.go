// Package app wires configuration, storage, the render client and the HTTP
// surface into a runnable application.
package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/reportd/reportd/internal/module/report"
	"github.com/reportd/reportd/internal/module/report/store"
	"github.com/reportd/reportd/internal/module/template"
	"github.com/reportd/reportd/internal/shared/cache"
	"github.com/reportd/reportd/internal/shared/config"
	"github.com/reportd/reportd/internal/shared/database"
	"github.com/reportd/reportd/internal/shared/events"
	"github.com/reportd/reportd/internal/shared/logger"
	"github.com/reportd/reportd/internal/shared/metrics"
	"github.com/reportd/reportd/internal/shared/middleware"
)

// Version is set at build time via ldflags.
var Version = "dev"

// LoadConfig loads the application configuration.
func LoadConfig() (*config.Config, error) {
	return config.Load()
}

// App holds all application components.
type App struct {
	cfg    *config.Config
	logger *logger.Logger
	router *gin.Engine

	metrics *metrics.Metrics
	bus     *events.Bus

	artifacts   store.Store
	redisClient redis.UniversalClient
	db          *gorm.DB
	janitor     *report.Janitor
}

// New creates and wires the application.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init event logger: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  log,
		metrics: metrics.New("reportd"),
		bus:     events.NewBus(zapLog),
	}

	a.bus.Register(report.NewMetricsRecorder(a.metrics))

	if err := a.initArtifactStore(); err != nil {
		return nil, err
	}

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		if err := db.AutoMigrate(&template.Template{}); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
	}

	renderer := report.NewHTTPRenderer(&report.RendererConfig{
		BaseURL: cfg.Renderer.BaseURL,
		Timeout: cfg.Renderer.Timeout,
	})
	service := report.NewService(a.artifacts, renderer, a.bus, a.metrics, log)

	a.janitor = report.NewJanitor(a.artifacts, cfg.Cache.CleanInterval, a.bus, log)
	a.janitor.Start()

	a.router = a.setupRouter(service)

	log.Info("application initialized",
		"version", Version,
		"storage_backend", cfg.Storage.Backend,
		"renderer", cfg.Renderer.BaseURL,
		"templates_enabled", cfg.Database.Enabled,
	)
	return a, nil
}

// initArtifactStore selects the artifact store backend.
func (a *App) initArtifactStore() error {
	switch a.cfg.Storage.Backend {
	case "", "memory":
		a.artifacts = store.NewMemoryStore(a.cfg.Cache.TTL)

	case "redis":
		client, err := cache.NewRedisClient(&a.cfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		a.redisClient = client
		a.artifacts = store.NewRedisStore(client, a.cfg.Storage.Prefix, a.cfg.Cache.TTL)

	case "s3":
		st, err := store.NewS3Store(&store.S3Config{
			Endpoint:        a.cfg.Storage.Endpoint,
			Region:          a.cfg.Storage.Region,
			AccessKeyID:     a.cfg.Storage.AccessKeyID,
			SecretAccessKey: a.cfg.Storage.SecretAccessKey,
			Bucket:          a.cfg.Storage.Bucket,
			Prefix:          a.cfg.Storage.Prefix,
		}, a.cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
		a.artifacts = st

	default:
		return fmt.Errorf("unknown storage backend: %q", a.cfg.Storage.Backend)
	}
	return nil
}

// setupRouter builds the gin engine with middleware and routes.
func (a *App) setupRouter(service *report.Service) *gin.Engine {
	// Set Gin mode based on environment
	if a.cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(a.cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = a.cfg.CORS.AllowOrigins
	}
	r.Use(middleware.CORS(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/report")
	report.NewHandler(service, Version).RegisterRoutes(api)

	if a.db != nil {
		template.NewHandler(template.NewRepository(a.db)).RegisterRoutes(api)
	}

	return r
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop shuts down background components and releases connections.
func (a *App) Stop() {
	a.janitor.Stop()

	if err := a.artifacts.Close(); err != nil {
		a.logger.Error("close artifact store", "error", err)
	}
	if a.redisClient != nil {
		if err := cache.Close(a.redisClient); err != nil {
			a.logger.Error("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Error("close database", "error", err)
		}
	}

	a.logger.Info("application stopped")
}
