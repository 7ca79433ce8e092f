package middleware

import (
	"fmt"
	"sync"
	"time"

	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
	now      func() time.Time
}

// NewRateLimiter 創建新的限流器，window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
		now:      time.Now,
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now

	// 累積小數令牌，避免高頻請求時永遠補不到整數
	rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}

	return false
}

// clientLimiters 依用戶端 IP 分配令牌桶
type clientLimiters struct {
	mu        sync.Mutex
	requests  int
	window    time.Duration
	limiters  map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *RateLimiter
	lastSeen time.Time
}

func newClientLimiters(requests int, window time.Duration) *clientLimiters {
	return &clientLimiters{
		requests: requests,
		window:   window,
		limiters: make(map[string]*clientLimiter),
		now:      time.Now,
	}
}

// Allow 檢查指定 IP 是否還有令牌
func (cl *clientLimiters) Allow(ip string) bool {
	cl.mu.Lock()
	now := cl.now()
	cl.sweep(now)

	entry, ok := cl.limiters[ip]
	if !ok {
		entry = &clientLimiter{limiter: NewRateLimiter(cl.requests, cl.window)}
		entry.limiter.lastTime = now
		entry.limiter.now = cl.now
		cl.limiters[ip] = entry
	}
	entry.lastSeen = now
	cl.mu.Unlock()

	return entry.limiter.Allow()
}

// sweep 移除閒置超過一個 window 的令牌桶（此時已補滿，移除不影響結果），呼叫者須持有鎖
func (cl *clientLimiters) sweep(now time.Time) {
	if now.Sub(cl.lastSweep) < 10*cl.window {
		return
	}
	for ip, entry := range cl.limiters {
		if now.Sub(entry.lastSeen) > cl.window {
			delete(cl.limiters, ip)
		}
	}
	cl.lastSweep = now
}

// RateLimit 限流中間件，每個用戶端 IP 在 window 內最多 requests 次
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := newClientLimiters(requests, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiters.Allow(ip) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status,
				common.ErrTooManyRequests.Response(fmt.Sprintf("retry after %s", window)))
			return
		}

		c.Next()
	}
}
