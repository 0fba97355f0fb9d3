package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/flowstate/flowstate-backend/config"
	"github.com/flowstate/flowstate-backend/docs"
	agentHandler "github.com/flowstate/flowstate-backend/internal/handler/agent"
	observationHandler "github.com/flowstate/flowstate-backend/internal/handler/observation"
	sessionHandler "github.com/flowstate/flowstate-backend/internal/handler/session"
	statsHandler "github.com/flowstate/flowstate-backend/internal/handler/stats"
	userHandler "github.com/flowstate/flowstate-backend/internal/handler/user"
	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
	agentService "github.com/flowstate/flowstate-backend/internal/service/agent"
	"github.com/flowstate/flowstate-backend/internal/service/coreevent"
	"github.com/flowstate/flowstate-backend/internal/service/mode"
	redisService "github.com/flowstate/flowstate-backend/internal/service/redis"
	"github.com/flowstate/flowstate-backend/internal/service/stats"
	"github.com/flowstate/flowstate-backend/internal/service/user"
	"github.com/flowstate/flowstate-backend/internal/tracker"
	"github.com/flowstate/flowstate-backend/middleware"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterHandler struct {
	userHandler        *userHandler.UserHandler
	agentHandler       *agentHandler.AgentHandler
	observationHandler *observationHandler.ObservationHandler
	statsHandler       *statsHandler.StatsHandler
	sessionHandler     *sessionHandler.SessionHandler
	agentService       agentService.AgentService
}

func RunServer(config *config.Config) {
	env := config.Env
	switch env {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
		log.Println("🚀 Starting server in PRODUCTION mode")
	case "dev", "development":
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode")
	default:
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode (default)")
	}

	utils.SetTrackerLocation(config.Tracker.Timezone)

	db, err := repository.NewRepository(config.DB)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	defer db.Close()

	cache := redisService.NewRedisService(redisService.RedisConfig{
		Host:     config.Redis.Host,
		Port:     config.Redis.Port,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if cache != nil {
		defer cache.Close()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userRepo := repository.NewUserRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	dailyRepo := repository.NewDailyStatRepository(db)
	periodRepo := repository.NewPeriodStatRepository(db)
	coreEventRepo := repository.NewCoreEventRepository(db)

	userSrv := user.NewUserService(userRepo)
	agentSrv := agentService.NewAgentService(agentRepo)
	statsSrv := stats.NewService(sessionRepo, dailyRepo, periodRepo, cache)
	coreEventSrv := coreevent.NewService(sessionRepo, coreEventRepo)

	defaultMode := entity.TrackerMode(config.Tracker.DefaultMode)
	if !defaultMode.Valid() {
		defaultMode = entity.ModeFocus
	}
	modeSrc := mode.NewSource(ctx, cache, defaultMode)

	merger, err := tracker.NewMerger(ctx, sessionRepo)
	if err != nil {
		log.Fatal("❌ Failed to restore merge cursor:", err)
	}

	trk := tracker.New(logger, merger, dailyRepo, modeSrc)
	go trk.Run(ctx)

	routerHandler := &RouterHandler{
		userHandler:        userHandler.NewUserHandler(userSrv),
		agentHandler:       agentHandler.NewAgentHandler(agentSrv),
		observationHandler: observationHandler.NewObservationHandler(trk, modeSrc),
		statsHandler:       statsHandler.NewStatsHandler(statsSrv, coreEventSrv),
		sessionHandler:     sessionHandler.NewSessionHandler(sessionRepo),
		agentService:       agentSrv,
	}

	r := setupRouter(routerHandler)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("✅ Server starting on port %s", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	gracefulShutdown(srv, cancel)
}

func gracefulShutdown(srv *http.Server, stopTracker context.CancelFunc) {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("🔄 Shutting down server...")

	// Stop the tracker first so the final open segment gets flushed
	// before the database pool closes.
	stopTracker()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	select {
	case <-ctx.Done():
		log.Println("⚠️ Server shutdown timeout exceeded")
	default:
		log.Println("✅ Server gracefully stopped")
	}
}

func setupRouter(routerHandler *RouterHandler) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:")) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "flowstate-backend",
		})
	})

	docs.SwaggerInfo.Host = "127.0.0.1:8080"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}
	docs.SwaggerInfo.Title = "FlowState tracker API"
	docs.SwaggerInfo.Description = "FlowState activity tracking and focus analytics API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	agentRoutes := r.Group("/api/v1/agent")
	agentRoutes.Use(middleware.APIKeyMiddleware(routerHandler.agentService))
	{
		agentRoutes.POST("/observations", routerHandler.observationHandler.SubmitObservation)
		agentRoutes.POST("/observations/batch", routerHandler.observationHandler.SubmitBatch)
		agentRoutes.GET("/status", routerHandler.observationHandler.GetStatus)
		agentRoutes.GET("/mode", routerHandler.observationHandler.GetMode)
	}

	publicAdminRoutes := r.Group("/api/v1/admin")
	{
		publicAdminRoutes.POST("/users/auth", routerHandler.userHandler.CreateOrAuthUserWithPassword)
	}

	privateRoutes := r.Group("/api/v1/admin")
	privateRoutes.Use(middleware.AuthenticationMiddleware())
	{
		privateRoutes.GET("/users/profile", routerHandler.userHandler.GetProfile)
		privateRoutes.POST("/users/logout", routerHandler.userHandler.Logout)

		privateRoutes.POST("/agents", routerHandler.agentHandler.CreateAgent)
		privateRoutes.GET("/agents", routerHandler.agentHandler.GetAgents)
		privateRoutes.POST("/agents/:id/key", routerHandler.agentHandler.RegenerateAPIKey)
		privateRoutes.DELETE("/agents/:id", routerHandler.agentHandler.DeactivateAgent)

		privateRoutes.GET("/status", routerHandler.observationHandler.GetStatus)
		privateRoutes.PUT("/mode", routerHandler.observationHandler.SetMode)

		privateRoutes.GET("/sessions", routerHandler.sessionHandler.GetSessions)
		privateRoutes.GET("/stats/daily/:date", routerHandler.statsHandler.GetDailyStat)
		privateRoutes.GET("/stats/period", routerHandler.statsHandler.GetPeriodStats)
		privateRoutes.POST("/stats/recompute/:date", routerHandler.statsHandler.RecomputeDate)
		privateRoutes.GET("/events", routerHandler.statsHandler.GetCoreEvents)
	}

	return r
}
