package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/cbt-saw/config"
	"github.com/lshigami/cbt-saw/database"
	_ "github.com/lshigami/cbt-saw/docs"
	"github.com/lshigami/cbt-saw/internal/cache"
	"github.com/lshigami/cbt-saw/internal/controller"
	adminctrl "github.com/lshigami/cbt-saw/internal/controller/admin"
	userctrl "github.com/lshigami/cbt-saw/internal/controller/user"
	"github.com/lshigami/cbt-saw/internal/event"
	"github.com/lshigami/cbt-saw/internal/logger"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"github.com/lshigami/cbt-saw/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title CBT Scoring & Ranking API
// @version 1.0
// @description Computer based test sessions scored with Simple Additive Weighting and ranked per exam.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewScorer,
			NewRankingCache,
			NewPublisher,
			service.NewResultNarrator,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewThresholdRepository,
			repository.NewResultRepository,
			repository.NewParticipantRepository,
		),

		fx.Provide(
			service.NewExamSessionService,
			service.NewAttemptFinalizerService,
			service.NewRankingService,
			service.NewResultService,
			service.NewScoringConfigService,
		),

		fx.Provide(
			userctrl.NewExamController,
			adminctrl.NewScoringController,
			controller.NewHealthController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
	}
}

func NewScorer(cfg *config.Config) (*scoring.SAWScorer, error) {
	sc, err := cfg.ScoringConfig()
	if err != nil {
		return nil, err
	}
	return scoring.NewSAWScorer(sc)
}

// NewRankingCache falls back to a no-op cache when REDIS_ADDR is unset.
func NewRankingCache(lc fx.Lifecycle, cfg *config.Config) (cache.RankingCache, error) {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR is not set. Rankings will be computed on every request.")
		return cache.NewNoopRankingCache(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})
	log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.RankingCacheTTL).Msg("Ranking cache connected")
	return cache.NewRedisRankingCache(client, cfg.Redis.RankingCacheTTL), nil
}

func NewPublisher(lc fx.Lifecycle, cfg *config.Config) (event.Publisher, error) {
	p, err := event.NewEventPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Close() },
	})
	return p, nil
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(controller.RequestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Interface("request_id", param.Keys[controller.RequestIDKey]).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", controller.HeaderUserUID, controller.HeaderUserRole, controller.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", controller.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(controller.Timeout(cfg.Server.RequestTimeout))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	examCtrl *userctrl.ExamController,
	scoringCtrl *adminctrl.ScoringController,
	healthCtrl *controller.HealthController,
) {
	router.GET("/health", healthCtrl.Health)

	api := router.Group("/api/v1")
	examCtrl.RegisterRoutes(api)
	scoringCtrl.RegisterRoutes(api.Group("/admin"))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("CBT scoring server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return server.Shutdown(ctx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
