package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-catalog/internal/api"
	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("seed", cfg.Catalog.Seed),
		zap.Bool("verify_thumbnails", cfg.Video.VerifyThumbnails),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 初始化快取（關閉時為 nil）
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	probeCache, closeProbeCache, err := setupProbeCache(cfg, cacheManager)
	if err != nil {
		common.LogFatal("Failed to initialize probe cache", zap.Error(err))
	}
	defer closeProbeCache()

	svc, err := api.NewServices(cfg, cacheManager, probeCache)
	if err != nil {
		common.LogFatal("Failed to initialize catalog", zap.Error(err))
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, svc)
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.String("addr", srv.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// setupProbeCache 選擇縮圖探測結果的快取：Redis 優先，其次為 in-process 快取
func setupProbeCache(cfg *config.Config, cacheManager *cache.Manager) (video.Cache, func(), error) {
	noop := func() {}

	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ttl := cfg.Cache.TTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		redisSvc, err := cache.NewRedisService(ctx, cfg.Redis, ttl)
		if err != nil {
			return nil, noop, err
		}
		common.LogInfo("Using Redis for probe cache", zap.String("addr", cfg.Redis.Addr))
		return redisSvc, func() { _ = redisSvc.Close() }, nil
	}

	// nil *Manager 不可直接轉成介面
	if cacheManager == nil {
		return nil, noop, nil
	}
	return cacheManager, noop, nil
}
