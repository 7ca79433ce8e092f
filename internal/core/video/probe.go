package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"recipe-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const cacheNamespace = "thumbnail"

// Cache 探測結果快取介面（in-process 或 Redis）
type Cache interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
}

// ProbeResult 縮圖探測結果
type ProbeResult struct {
	VideoID      string `json:"video_id"`
	ThumbnailURL string `json:"thumbnail_url"`
	Verified     bool   `json:"verified"`
	Fallback     bool   `json:"fallback"`
	CacheHit     bool   `json:"cache_hit"`
}

// Probe 以 HEAD 請求確認推導出的縮圖是否存在
type Probe struct {
	resolver *Resolver
	client   *resty.Client
	cache    Cache
}

// NewProbe 創建縮圖探測器，cache 可為 nil
func NewProbe(resolver *Resolver, timeout time.Duration, cache Cache) *Probe {
	if resolver == nil {
		resolver = defaultResolver
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "recipe-catalog/thumbnail-probe")

	return &Probe{
		resolver: resolver,
		client:   client,
		cache:    cache,
	}
}

// Verify 確認 maxresdefault 縮圖是否存在，不存在時改用 hqdefault。
// 兩者都不存在時回傳未驗證的推測網址；只有網路錯誤才回傳 error。
func (p *Probe) Verify(ctx context.Context, id string) (*ProbeResult, error) {
	if id == "" {
		return nil, common.NewFieldError("video_id", "must not be empty")
	}

	if cached, ok := p.lookup(ctx, id); ok {
		return cached, nil
	}

	result := &ProbeResult{
		VideoID:      id,
		ThumbnailURL: p.resolver.DeriveThumbnail(id),
	}

	found, err := p.exists(ctx, result.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	if found {
		result.Verified = true
		p.store(ctx, result)
		return result, nil
	}

	fallback := p.resolver.fallbackThumbnail(id)
	found, err = p.exists(ctx, fallback)
	if err != nil {
		return nil, err
	}
	if found {
		result.ThumbnailURL = fallback
		result.Verified = true
		result.Fallback = true
	}

	common.LogDebug("縮圖探測完成",
		zap.String("video_id", id),
		zap.Bool("verified", result.Verified),
		zap.Bool("fallback", result.Fallback),
	)

	p.store(ctx, result)
	return result, nil
}

// exists 以 HEAD 確認資源是否存在
func (p *Probe) exists(ctx context.Context, url string) (bool, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Head(url)
	if err != nil {
		return false, fmt.Errorf("failed to probe thumbnail %s: %w", url, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusGone:
		return false, nil
	default:
		return false, fmt.Errorf("thumbnail host returned status %d for %s", resp.StatusCode(), url)
	}
}

func (p *Probe) lookup(ctx context.Context, id string) (*ProbeResult, bool) {
	if p.cache == nil {
		return nil, false
	}

	raw, err := p.cache.Get(ctx, cacheNamespace, id)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("縮圖快取讀取失敗", zap.String("video_id", id), zap.Error(err))
		}
		return nil, false
	}

	var result ProbeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		common.LogWarn("縮圖快取內容無效", zap.String("video_id", id), zap.Error(err))
		return nil, false
	}
	result.CacheHit = true
	return &result, true
}

func (p *Probe) store(ctx context.Context, result *ProbeResult) {
	if p.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, cacheNamespace, result.VideoID, string(data)); err != nil {
		common.LogWarn("縮圖快取寫入失敗", zap.String("video_id", result.VideoID), zap.Error(err))
	}
}
