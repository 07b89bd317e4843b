package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garoto002/siku-backend/alerts"
	"github.com/garoto002/siku-backend/cache"
	"github.com/garoto002/siku-backend/config"
	"github.com/garoto002/siku-backend/handlers"
	"github.com/garoto002/siku-backend/kafka"
	"github.com/garoto002/siku-backend/llm"
	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/middleware"
	"github.com/garoto002/siku-backend/mongodb"
	"github.com/garoto002/siku-backend/push"
	"github.com/garoto002/siku-backend/sse"
	"github.com/garoto002/siku-backend/worker"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Development, logger.LogLevel(cfg.LogLevel)); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	store, err := mongodb.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store.Close(ctx)
	}()

	var redisCache *cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err = cache.Connect(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.Error(err))
		}
	}
	defer redisCache.Close()

	broker := sse.NewBroker()
	notifier := &alerts.Notifier{
		Store:  store,
		Push:   push.NewClient(),
		Stream: broker,
		Dedup:  cfg.AlertsDedup,
	}
	if cfg.KafkaBootstrapServer != "" {
		producer, err := kafka.NewProducer(kafka.Config{
			BootstrapServers: cfg.KafkaBootstrapServer,
			APIKey:           cfg.KafkaAPIKey,
			APISecret:        cfg.KafkaAPISecret,
		})
		if err != nil {
			log.Warn("kafka unavailable, alert events disabled", zap.Error(err))
		} else {
			notifier.Events = producer
			defer producer.Close()
		}
	}

	engine := alerts.NewEngine(store, notifier)

	pool := worker.NewPool(cfg.BatchWorkers, cfg.PerUserTimeout)
	pool.Start()
	defer pool.Stop()

	scheduler := alerts.NewScheduler(engine, pool)
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start alert scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	h := &handlers.Handler{
		Store:     store,
		Engine:    engine,
		Broker:    broker,
		Cache:     redisCache,
		AI:        llm.NewClient(cfg.GroqAPIKey),
		JWTSecret: cfg.JWTSecret,
	}

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorsMiddleware)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics/workers", gin.WrapF(pool.MetricsHandler))

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.Auth(cfg.JWTSecret), h.Me)
	}

	// SSE cannot carry an Authorization header from EventSource; the
	// handler authenticates via a token query parameter itself.
	api.GET("/alerts/stream", h.StreamAlerts)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTSecret))
	{
		protected.GET("/alerts", h.ListAlerts)
		protected.PUT("/alerts/:id/read", h.MarkAlertRead)
		protected.DELETE("/alerts/:id", h.DeleteAlert)
		protected.POST("/alerts/detect", h.DetectAlerts)
		protected.POST("/alerts/push-token", h.RegisterPushToken)
		protected.GET("/alerts/settings", h.GetAlertSettings)
		protected.PUT("/alerts/settings", h.UpdateAlertSettings)

		protected.POST("/expenses", h.CreateExpense)
		protected.GET("/expenses", h.ListExpenses)
		protected.GET("/expenses/totals", h.ExpenseTotals)
		protected.GET("/expenses/:id", h.GetExpense)
		protected.PUT("/expenses/:id", h.UpdateExpense)
		protected.DELETE("/expenses/:id", h.DeleteExpense)

		protected.POST("/incomes", h.CreateIncome)
		protected.GET("/incomes", h.ListIncomes)
		protected.PUT("/incomes/:id", h.UpdateIncome)
		protected.DELETE("/incomes/:id", h.DeleteIncome)

		protected.POST("/areas", h.CreateArea)
		protected.GET("/areas", h.ListAreas)
		protected.PUT("/areas/:id", h.UpdateArea)
		protected.DELETE("/areas/:id", h.DeleteArea)

		protected.POST("/categories", h.CreateCategory)
		protected.GET("/categories", h.ListCategories)
		protected.PUT("/categories/:id", h.UpdateCategory)
		protected.DELETE("/categories/:id", h.DeleteCategory)

		protected.POST("/goals", h.CreateGoal)
		protected.GET("/goals", h.ListGoals)
		protected.PUT("/goals/:id", h.UpdateGoal)
		protected.DELETE("/goals/:id", h.DeleteGoal)

		protected.POST("/activities", h.CreateActivity)
		protected.GET("/activities", h.ListActivities)
		protected.GET("/activities/stats", h.ActivityStats)
		protected.GET("/activities/:id", h.GetActivity)
		protected.PUT("/activities/:id", h.UpdateActivity)
		protected.DELETE("/activities/:id", h.DeleteActivity)

		protected.POST("/projects", h.CreateProject)
		protected.GET("/projects", h.ListProjects)
		protected.PUT("/projects/:id", h.UpdateProject)
		protected.DELETE("/projects/:id", h.DeleteProject)

		protected.GET("/reports/export", h.ExportCSV)
		protected.POST("/imports/statement", h.ImportStatement)
		protected.GET("/insights", h.GetInsights)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
