package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-catalog/internal/core/cache"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   CatalogStatus          `json:"catalog"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// CatalogStatus 食譜目錄狀態
type CatalogStatus struct {
	Recipes int              `json:"recipes"`
	Filter  recipe.Selection `json:"filter"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg    *config.Config
	store  *recipe.Store
	filter *recipe.FilterModel
	cache  *cache.Manager
}

// NewHandler 創建健康檢查處理器，cacheManager 可為 nil
func NewHandler(cfg *config.Config, store *recipe.Store, filter *recipe.FilterModel, cacheManager *cache.Manager) *Handler {
	return &Handler{
		cfg:    cfg,
		store:  store,
		filter: filter,
		cache:  cacheManager,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: CatalogStatus{
			Recipes: h.store.Len(),
			Filter:  h.filter.Selection(),
		},
	}

	if h.cache != nil {
		stats := h.cache.GetStats()
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.store == nil || h.filter == nil {
		c.JSON(common.ErrServiceUnavailable.Status, common.ErrServiceUnavailable.Response("catalog not initialised"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": h.store.Len(),
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
