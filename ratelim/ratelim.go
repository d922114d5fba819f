package ratelim

import (
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// RateLimiter tracks a token bucket per client IP. Search endpoints
// sit in front of paid upstream APIs, so abusive clients get cut off
// before they cost anything.
type RateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex

	limit rate.Limit
	burst int
}

func NewRateLimiter() *RateLimiter {
	// 10 requests per second with a short burst covers normal
	// browsing of search results.
	return &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    10,
		burst:    20,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = limiter

	// Drop idle IPs so the map does not grow forever.
	go func() {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	}()

	return limiter
}

func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		limiter := rl.getLimiter(r.RemoteAddr)
		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}
