package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-catalog/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// deduplicator 記錄最近的 POST 請求指紋
type deduplicator struct {
	mu        sync.Mutex
	window    time.Duration
	requests  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func newDeduplicator(window time.Duration) *deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// seen 在 window 內出現過相同指紋時回傳 true，否則記錄本次請求
func (d *deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.sweep(now)

	if last, exists := d.requests[fingerprint]; exists && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// forget 移除指紋，讓失敗的請求可以重新送出
func (d *deduplicator) forget(fingerprint string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.requests, fingerprint)
}

// sweep 每 10 個 window 清除一次過期指紋，呼叫者須持有鎖
func (d *deduplicator) sweep(now time.Time) {
	if now.Sub(d.lastSweep) < 10*d.window {
		return
	}
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
	d.lastSweep = now
}

// Deduplication 請求去重中間件：相同路徑與內容的 POST 在 window 內只成功處理一次，
// 非 2xx 的回應不佔用指紋
func Deduplication(window time.Duration) gin.HandlerFunc {
	d := newDeduplicator(window)

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if d.seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status,
				common.ErrTooManyRequests.Response("duplicate request"))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			d.forget(fingerprint)
		}
	}
}
