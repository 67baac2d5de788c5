package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPLimiter rate-limits per client IP.
type IPLimiter struct {
	mu   sync.Mutex
	m    map[string]*visitor
	r    rate.Limit
	b    int
	idle time.Duration
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewIPLimiter allows perMinute requests per IP, bursting up to perMinute.
func NewIPLimiter(perMinute int) *IPLimiter {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &IPLimiter{
		m:    make(map[string]*visitor),
		r:    rate.Every(time.Minute / time.Duration(perMinute)),
		b:    perMinute,
		idle: 10 * time.Minute,
	}
}

func (l *IPLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.m[ip]; ok {
		v.seen = now
		return v.lim
	}
	// forget idle clients before growing the map
	for k, v := range l.m {
		if now.Sub(v.seen) > l.idle {
			delete(l.m, k)
		}
	}
	lim := rate.NewLimiter(l.r, l.b)
	l.m[ip] = &visitor{lim: lim, seen: now}
	return lim
}

func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", "60")
			abort(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
