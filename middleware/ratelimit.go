package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andreyantropov/SkillNotes/pkg/appenv"
	"github.com/andreyantropov/SkillNotes/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore maps keys (user or IP) to token buckets. A janitor goroutine
// drops entries not seen for staleAfter to bound memory.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
}

func newLimiterStore(staleAfter time.Duration) *limiterStore {
	s := &limiterStore{
		entries:    make(map[string]*limiterEntry),
		staleAfter: staleAfter,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.cleanup()
		}
	}()
	return s
}

func (s *limiterStore) getOrCreate(key string, r rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(r, burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: time.Now()}
	return lim
}

func (s *limiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.staleAfter)
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

func envRate() (rate.Limit, int) {
	rps, burst := 5.0, 20
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			burst = i
		}
	}
	return rate.Limit(rps), burst
}

func limitingDisabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")))
	if v == "0" || v == "false" || v == "no" {
		return true
	}
	return appenv.IsTest()
}

// RateLimit applies a token bucket per authenticated user, falling back to the
// client IP for anonymous requests. Preflight and /health are exempt.
// Configure via RATE_LIMIT_ENABLED, RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func RateLimit() gin.HandlerFunc {
	if limitingDisabled() {
		return func(c *gin.Context) { c.Next() }
	}

	r, burst := envRate()
	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if userID, ok := c.Get("userId"); ok {
			if id, ok := userID.(int); ok {
				key = "uid:" + strconv.Itoa(id)
			}
		}

		if !store.getOrCreate(key, r, burst).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests,
				types.NewErrorResponse(types.ErrorCodeRateLimited, "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitAuth is a stricter, independent per-IP limiter for /register and
// /login, so credential brute force cannot ride on the general budget.
func RateLimitAuth() gin.HandlerFunc {
	if limitingDisabled() {
		return func(c *gin.Context) { c.Next() }
	}

	store := newLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !store.getOrCreate("auth:"+c.ClientIP(), rate.Limit(1.0), 5).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests,
				types.NewErrorResponse(types.ErrorCodeRateLimited, "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
