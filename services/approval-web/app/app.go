package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/cache"
	middleware "github.com/nimeshabuddhika/credit-approval-web/pkg/middlewares"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/utils"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/configs"
	_ "github.com/nimeshabuddhika/credit-approval-web/services/approval-web/docs"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/display"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/handlers"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/services"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/templates"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const limiterKey = "credit_approval:submissions"

// Handlers are the route owners mounted by NewRouter.
type Handlers struct {
	Base  *handlers.BaseHandler
	Form  *handlers.FormHandler
	Batch *handlers.BatchHandler
}

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}

	// Optional redis backing for the submission limiter
	var redisClient *redis.Client
	if !utils.IsEmpty(cfg.RedisAddr) {
		client, closer, err := cache.New(ctx, cache.Config{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		cleanup = closer
		logger.Info("redis client initialized", zap.String("addr", cfg.RedisAddr))
	}
	limiter := pkg.NewDistributedLimiter(redisClient, limiterKey, cfg.MaxSubmissionsPerSec, cfg.SubmissionBurst, time.Second, logger)

	deps, err := NewHandlers(logger, cfg, limiter)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	r, err := NewRouter(logger, deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	return srv, cleanup, nil
}

// NewHandlers builds the services and handlers for cfg. The display region is created here
// and shared by every submission served by the returned handlers.
func NewHandlers(logger *zap.Logger, cfg *configs.Config, limiter *pkg.DistributedLimiter) (Handlers, error) {
	predictor, err := services.NewPredictionClient(services.PredictionClientConfig{
		Logger:     logger,
		BaseURL:    cfg.PredictionServiceAddr,
		HTTPClient: utils.NewHTTPClient(
			utils.WithClientTimeout(cfg.PredictionTimeout),
			utils.WithResponseHeaderTimeout(cfg.PredictionHeaderTimeout),
		),
	})
	if err != nil {
		return Handlers{}, err
	}

	region := display.NewRegion()
	submissions := services.NewSubmissionService(services.SubmissionServiceConfig{
		Logger:    logger,
		Predictor: predictor,
		Region:    region,
		Limiter:   limiter,
	})
	batches := services.NewBatchService(services.BatchServiceConfig{
		Logger:      logger,
		Predictor:   predictor,
		Concurrency: cfg.BatchConcurrency,
	})

	return Handlers{
		Base:  handlers.NewBaseHandler(logger),
		Form:  handlers.NewFormHandler(logger, submissions, region),
		Batch: handlers.NewBatchHandler(logger, batches, cfg.MaxUploadBytes),
	}, nil
}

// NewRouter mounts every route on a fresh Gin engine with the embedded templates loaded.
func NewRouter(logger *zap.Logger, h Handlers) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.Base.RegisterRoutes(r)

	r.Use(middleware.TraceID(logger))
	r.Use(middleware.Metrics())

	h.Form.RegisterRoutes(r)
	h.Batch.RegisterRoutes(r)

	api := r.Group("/api/v1")
	h.Form.RegisterAPIRoutes(api)

	return r, nil
}
