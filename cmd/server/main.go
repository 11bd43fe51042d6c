package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Sabbir-Coder/AssetVerse-Server/api/swagger"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/checkout"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/handler"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/middleware"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/repository"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/cache"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/config"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/database"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/logger"
	corsmiddleware "github.com/Sabbir-Coder/AssetVerse-Server/pkg/middleware/cors"
	reqidmiddleware "github.com/Sabbir-Coder/AssetVerse-Server/pkg/middleware/requestid"
)

// @title AssetVerse Server
// @version 1.0.0
// @description Corporate asset management backend
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close()
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.AggregationTTL, logr, cacheRepo != nil)

	assetRepo := repository.NewAssetRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authSvc := service.NewAuthService(service.AuthConfig{
		TokenSecret: cfg.Auth.TokenSecret,
		Issuer:      cfg.Auth.Issuer,
	}, logr)
	userSvc := service.NewUserService(userRepo, cacheSvc, cfg.Cache.RoleTTL, nil, logr)
	assetSvc := service.NewAssetService(assetRepo, cacheSvc, nil, logr)
	requestSvc := service.NewRequestService(requestRepo, cacheSvc, metricsSvc, nil, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, requestRepo, cacheSvc, cfg.Cache.AggregationTTL, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, userRepo, checkout.New(cfg.Payment), cfg.Payment.Currency, logr)

	assetHandler := handler.NewAssetHandler(assetSvc, userSvc)
	requestHandler := handler.NewRequestHandler(requestSvc, userSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	userHandler := handler.NewUserHandler(userSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
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

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	hrOnly := middleware.RequireRoles(userSvc, models.RoleHR, models.RoleAdmin)
	employeeOnly := middleware.RequireRoles(userSvc, models.RoleEmployee)

	api.POST("/users", userHandler.Create)
	api.GET("/users", middleware.RequireRoles(userSvc, models.RoleAdmin), userHandler.List)
	api.GET("/users/me", userHandler.Me)
	api.GET("/users/role/:email", userHandler.Role)
	api.GET("/companies", userHandler.Companies)
	api.GET("/employees", userHandler.Employees)
	api.GET("/birthdays", userHandler.Birthdays)

	api.GET("/all-assets", assetHandler.ListAll)
	api.GET("/assets", hrOnly, assetHandler.List)
	api.GET("/assets/:id", assetHandler.Get)
	api.POST("/assets", hrOnly, assetHandler.Create)
	api.PUT("/assets/:id", hrOnly, assetHandler.Update)
	api.DELETE("/assets/:id", hrOnly, assetHandler.Delete)

	api.POST("/requests", employeeOnly, requestHandler.Create)
	api.GET("/requests", hrOnly, requestHandler.List)
	api.GET("/my-requests", requestHandler.MyRequests)
	api.PATCH("/requests/:id/approve", hrOnly, requestHandler.Approve)
	api.PATCH("/requests/:id/reject", hrOnly, requestHandler.Reject)

	api.GET("/assignments", hrOnly, assignmentHandler.List)
	api.GET("/my-assets", assignmentHandler.MyAssets)
	api.PATCH("/assignments/:id/return", assignmentHandler.Return)
	api.GET("/assignments/aggregate", hrOnly, assignmentHandler.Aggregate)
	api.GET("/assignments/export", hrOnly, assignmentHandler.Export)
	api.GET("/asset-history/:email", assignmentHandler.History)

	api.GET("/payments/packages", paymentHandler.Packages)
	api.POST("/payments/checkout", hrOnly, paymentHandler.Checkout)
	api.POST("/payments/confirm", hrOnly, paymentHandler.Confirm)
	api.GET("/payments", hrOnly, paymentHandler.History)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
