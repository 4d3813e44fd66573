package main

import (
	"context"
	"errors"
	_ "eyewear_admin/docs"
	_ "eyewear_admin/internal/domain/coupon"
	_ "eyewear_admin/internal/domain/user"
	"eyewear_admin/internal/pkg/config"
	"eyewear_admin/internal/pkg/event"
	"eyewear_admin/internal/pkg/middleware"
	"eyewear_admin/internal/pkg/registry"
	"eyewear_admin/pkg/cache"
	"eyewear_admin/pkg/database"
	"eyewear_admin/pkg/logger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Eyewear Admin API
// @version 1.0
// @description 眼镜商城管理后台接口
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	config.LoadConfig()
	cfg := config.GlobalConfig

	// 2. 初始化日志
	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.L()

	// 3. 初始化数据库与缓存
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect database", zap.Error(err))
	}
	rdb, err := database.InitRedis(cfg.Redis, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect redis", zap.Error(err))
	}
	publisher := event.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
	defer publisher.Close()

	// 4. 路由与中间件
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	r.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderTraceID},
			ExposeHeaders:    []string{middleware.HeaderTraceID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		metrics.Middleware(),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 5. 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:        db,
		Redis:     rdb,
		Cache:     cache.NewRedisCache(rdb, cfg.Server.Mode),
		Publisher: publisher,
		Logger:    zlog,
		Router:    r,
		API:       r.Group("/api"),
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		zlog.Fatal("Failed to init modules", zap.Error(err))
	}

	// 6. 启动服务，收到信号后优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		zlog.Warn("Failed to close redis", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("Server stopped")
}
