package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/teachnotes/teachnotes-api/api/swagger"
	"github.com/teachnotes/teachnotes-api/internal/handler"
	"github.com/teachnotes/teachnotes-api/internal/middleware"
	"github.com/teachnotes/teachnotes-api/internal/repository"
	"github.com/teachnotes/teachnotes-api/internal/service"
	"github.com/teachnotes/teachnotes-api/pkg/cache"
	"github.com/teachnotes/teachnotes-api/pkg/config"
	"github.com/teachnotes/teachnotes-api/pkg/database"
	"github.com/teachnotes/teachnotes-api/pkg/logger"
	corsmiddleware "github.com/teachnotes/teachnotes-api/pkg/middleware/cors"
	reqidmiddleware "github.com/teachnotes/teachnotes-api/pkg/middleware/requestid"
)

// @title TeachNotes API
// @version 1.0.0
// @description Subjects and notes service for teachers with cookie sessions
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.SubjectsTTL, logr, cacheRepo != nil)

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	validate := service.NewValidator()
	authSvc := service.NewAuthService(userRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, noteRepo, cacheSvc, cfg.Cache.SubjectsTTL, validate, logr)
	noteSvc := service.NewNoteService(noteRepo, subjectRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(subjectRepo, noteRepo, cacheSvc, cfg.Cache.DashboardTTL, logr)

	sessions := middleware.NewSessionManager(cfg.Session, cfg.Env)

	authHandler := handler.NewAuthHandler(authSvc, sessions)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.CurrentUser(sessions, authSvc))
	r.Use(middleware.RouteGuard(
		sessions,
		[]string{"/", "/login", "/register"},
		[]string{"/api/", "/auth/", "/docs", "/health", "/ready", "/metrics"},
	))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/me", authHandler.Me)
		api.GET("/dashboard", dashboardHandler.Overview)
		api.GET("/subjects", subjectHandler.ListOwned)
		api.GET("/subjects/all", subjectHandler.ListAll)
		api.GET("/subjects/:id", subjectHandler.Get)
		api.GET("/notes/:id", noteHandler.Get)
	}

	r.POST("/subjects", subjectHandler.Create)
	r.POST("/subjects/:id", subjectHandler.Update)
	r.POST("/subjects/:id/delete", subjectHandler.Delete)
	r.POST("/notes", noteHandler.Create)
	r.POST("/notes/:id", noteHandler.Update)
	r.POST("/notes/:id/delete", noteHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
