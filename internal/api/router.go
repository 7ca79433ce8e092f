package api

import (
	"context"
	"fmt"
	"time"

	"recipe-catalog/internal/api/handlers/health"
	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/api/middleware"
	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由使用的核心服務
type Services struct {
	Store    *recipe.Store
	Filter   *recipe.FilterModel
	Resolver *video.Resolver
	Probe    *video.Probe
	Cache    *cache.Manager
}

// NewServices 依設定建立食譜目錄服務。
// cacheManager 與 probeCache 可為 nil；video.verify_thumbnails 關閉時不建立 Probe。
func NewServices(cfg *config.Config, cacheManager *cache.Manager, probeCache video.Cache) (*Services, error) {
	initial, err := defaultSelection(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	svc := &Services{
		Store:    recipe.NewStore(recipe.WithNotifier(recipe.LogNotifier{})),
		Filter:   recipe.NewFilterModel(initial),
		Resolver: video.NewResolver(cfg.Video.ThumbnailHost),
		Cache:    cacheManager,
	}

	if cfg.Video.VerifyThumbnails {
		svc.Probe = video.NewProbe(svc.Resolver, cfg.Video.ProbeTimeout, probeCache)
	}

	if cfg.Catalog.Seed {
		forms, err := recipe.LoadSeedForms(cfg.Catalog.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed recipes: %w", err)
		}
		n, err := recipe.Seed(svc.Store, forms, svc.Resolver)
		if err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		common.LogInfo("Catalog seeded",
			zap.Int("recipes", n),
			zap.String("seed_file", cfg.Catalog.SeedFile),
		)
	}

	return svc, nil
}

func defaultSelection(cfg config.CatalogConfig) (recipe.Selection, error) {
	sel := recipe.DefaultSelection
	if cfg.DefaultCategory != "" {
		c, err := recipe.ParseCategory(cfg.DefaultCategory)
		if err != nil {
			return sel, fmt.Errorf("invalid catalog.default_category: %w", err)
		}
		sel.Category = c
	}
	if cfg.DefaultSubCategory != "" {
		sc, err := recipe.ParseSubCategory(cfg.DefaultSubCategory)
		if err != nil {
			return sel, fmt.Errorf("invalid catalog.default_sub_category: %w", err)
		}
		sel.SubCategory = sc
	}
	return sel, nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) (*gin.Engine, error) {
	if svc == nil || svc.Store == nil || svc.Filter == nil || svc.Resolver == nil {
		return nil, fmt.Errorf("catalog services are not initialized")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svc.Store, svc.Filter, svc.Cache)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	h := recipeHandler.NewHandler(svc.Store, svc.Filter, svc.Resolver, svc.Probe)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	{
		api.GET("/categories", h.HandleCategories)

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", h.HandleListRecipes)
			recipeGroup.GET("/:id", h.HandleGetRecipe)
			recipeGroup.POST("", middleware.Deduplication(cfg.DedupWindow), h.HandleAddRecipe)
		}

		filterGroup := api.Group("/filter")
		{
			filterGroup.GET("", h.HandleGetFilter)
			filterGroup.PUT("", h.HandleUpdateFilter)
			filterGroup.GET("/recipes", h.HandleFilteredRecipes)
		}

		api.POST("/video/resolve", h.HandleResolveVideo)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(common.ErrNotFound.Status, common.ErrNotFound.Response(c.Request.URL.Path))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Int("recipes", svc.Store.Len()),
		zap.Bool("thumbnail_probe", svc.Probe != nil),
		zap.Bool("cache_manager_initialized", svc.Cache != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// requestTimeout 為每個請求設定 context 超時
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			c.AbortWithStatusJSON(common.ErrGatewayTimeout.Status, common.ErrGatewayTimeout.Response(timeout.String()))
		}
	}
}
