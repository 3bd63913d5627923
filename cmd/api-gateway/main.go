package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nwced/clc-registry-api/api/swagger"
	"github.com/nwced/clc-registry-api/internal/handler"
	"github.com/nwced/clc-registry-api/internal/middleware"
	"github.com/nwced/clc-registry-api/internal/models"
	"github.com/nwced/clc-registry-api/internal/repository"
	"github.com/nwced/clc-registry-api/internal/service"
	"github.com/nwced/clc-registry-api/internal/store"
	"github.com/nwced/clc-registry-api/internal/store/memory"
	"github.com/nwced/clc-registry-api/pkg/cache"
	"github.com/nwced/clc-registry-api/pkg/config"
	"github.com/nwced/clc-registry-api/pkg/database"
	"github.com/nwced/clc-registry-api/pkg/export"
	"github.com/nwced/clc-registry-api/pkg/jobs"
	"github.com/nwced/clc-registry-api/pkg/logger"
	corsmiddleware "github.com/nwced/clc-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nwced/clc-registry-api/pkg/middleware/requestid"
	"github.com/nwced/clc-registry-api/pkg/storage"
)

// @title CLC Registry API
// @version 1.0.0
// @description Registry of community learning college sites, staff, assets, programs and their activity audit trail
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	var db *sqlx.DB
	var st store.Store
	if cfg.Database.Driver == config.DriverMemory {
		st = memory.New().Tables()
		logr.Sugar().Warnw("running on the in-memory store, data will not survive restarts")
	} else {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		st = store.Store{
			Users:      repository.NewUserRepository(db),
			Sites:      repository.NewSiteRepository(db),
			Staff:      repository.NewStaffRepository(db),
			Assets:     repository.NewAssetRepository(db),
			Programs:   repository.NewProgramRepository(db),
			Activities: repository.NewActivityRepository(db),
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}

	validate := validator.New()

	authSvc := service.NewAuthService(st.Users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "clc-registry-api",
	})
	userSvc := service.NewUserService(st.Users, validate, logr)
	siteSvc := service.NewSiteService(st.Sites, st.Activities, cacheSvc, metricsSvc, validate, logr)
	staffSvc := service.NewStaffService(st.Staff, st.Sites, st.Activities, metricsSvc, validate, logr)
	assetSvc := service.NewAssetService(st.Assets, st.Sites, st.Activities, metricsSvc, validate, logr)
	programSvc := service.NewProgramService(st.Programs, st.Sites, st.Activities, metricsSvc, validate, logr)
	activitySvc := service.NewActivityService(st.Activities, validate, logr)
	dashboardSvc := service.NewDashboardService(st, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(st, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	cleanupQueue := jobs.NewQueue("export-cleanup", func(ctx context.Context, _ jobs.Job) error {
		return exportSvc.CleanupExpired(ctx)
	}, jobs.QueueConfig{Workers: 1, Logger: logr})
	cleanupQueue.Start(context.Background())
	defer cleanupQueue.Stop()
	go func() {
		ticker := time.NewTicker(cfg.Exports.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			_ = cleanupQueue.Enqueue(jobs.Job{Type: "cleanup"})
		}
	}()

	h := routeHandlers{
		auth:      handler.NewAuthHandler(authSvc),
		users:     handler.NewUserHandler(userSvc),
		sites:     handler.NewSiteHandler(siteSvc, staffSvc, assetSvc, programSvc, activitySvc),
		staff:     handler.NewStaffHandler(staffSvc),
		assets:    handler.NewAssetHandler(assetSvc),
		programs:  handler.NewProgramHandler(programSvc),
		activity:  handler.NewActivityHandler(activitySvc),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		exports:   handler.NewExportHandler(exportSvc),
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, authSvc, h)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

type routeHandlers struct {
	auth      *handler.AuthHandler
	users     *handler.UserHandler
	sites     *handler.SiteHandler
	staff     *handler.StaffHandler
	assets    *handler.AssetHandler
	programs  *handler.ProgramHandler
	activity  *handler.ActivityHandler
	dashboard *handler.DashboardHandler
	exports   *handler.ExportHandler
}

func registerRoutes(r *gin.Engine, cfg *config.Config, authSvc *service.AuthService, h routeHandlers) {
	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", h.auth.Login)
	api.POST("/auth/refresh", h.auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", h.auth.Logout)
	authed.POST("/auth/change-password", h.auth.ChangePassword)
	authed.GET("/auth/me", h.auth.Me)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleProjectManager)
	fieldwork := middleware.RequireRoles(models.RoleAdmin, models.RoleProjectManager, models.RoleFieldAssessor)
	analysts := middleware.RequireRoles(models.RoleAdmin, models.RoleProjectManager, models.RoleDataAnalyst)

	sites := authed.Group("/sites")
	sites.GET("", h.sites.List)
	sites.GET("/:id", h.sites.Get)
	sites.POST("", writers, h.sites.Create)
	sites.PUT("/:id", writers, h.sites.Update)
	sites.DELETE("/:id", adminOnly, h.sites.Delete)
	sites.POST("/:id/visit", fieldwork, h.sites.RecordVisit)
	sites.GET("/:id/staff", h.sites.Staff)
	sites.GET("/:id/assets", h.sites.Assets)
	sites.GET("/:id/programs", h.sites.Programs)
	sites.GET("/:id/activities", h.sites.Activities)
	sites.GET("/:id/visits", h.sites.Visits)

	staff := authed.Group("/staff")
	staff.GET("", h.staff.List)
	staff.GET("/:id", h.staff.Get)
	staff.POST("", writers, h.staff.Create)
	staff.PUT("/:id", writers, h.staff.Update)
	staff.DELETE("/:id", adminOnly, h.staff.Delete)

	assets := authed.Group("/assets")
	assets.GET("", h.assets.List)
	assets.GET("/:id", h.assets.Get)
	assets.POST("", writers, h.assets.Create)
	assets.PUT("/:id", writers, h.assets.Update)
	assets.DELETE("/:id", adminOnly, h.assets.Delete)

	programs := authed.Group("/programs")
	programs.GET("", h.programs.List)
	programs.GET("/:id", h.programs.Get)
	programs.POST("", writers, h.programs.Create)
	programs.PUT("/:id", writers, h.programs.Update)
	programs.DELETE("/:id", adminOnly, h.programs.Delete)

	activities := authed.Group("/activities")
	activities.GET("", h.activity.List)
	activities.GET("/:id", h.activity.Get)
	activities.POST("", fieldwork, h.activity.Create)
	activities.PUT("/:id/status", writers, h.activity.UpdateStatus)
	activities.DELETE("/:id", adminOnly, h.activity.Delete)

	authed.GET("/dashboard/summary", h.dashboard.Summary)

	exports := authed.Group("/exports")
	exports.GET("/download/:token", h.exports.Download)
	exports.GET("/:entity", analysts, h.exports.Generate)

	users := authed.Group("/users")
	users.GET("", adminOnly, h.users.List)
	users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), h.users.Get)
	users.POST("", adminOnly, h.users.Create)
	users.PUT("/:id", adminOnly, h.users.Update)
	users.DELETE("/:id", adminOnly, h.users.Deactivate)
}
