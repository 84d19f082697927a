package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/bwayne222/youtube-video-downloader/utils"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// One map and one sweeper for the whole process, however many handlers
// are constructed.
var (
	limiterMu sync.Mutex
	limiters  = make(map[string]*ipLimiter)
	sweepOnce sync.Once
)

func sweepLimiters() {
	tick := time.NewTicker(3 * time.Minute)
	defer tick.Stop()
	for range tick.C {
		limiterMu.Lock()
		for ip, l := range limiters {
			if time.Since(l.lastSeen) > 10*time.Minute {
				delete(limiters, ip)
			}
		}
		limiterMu.Unlock()
	}
}

// RateLimit applies a per-client-IP token bucket. Idle entries are swept
// every few minutes so the map does not grow with one-off clients.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	sweepOnce.Do(func() { go sweepLimiters() })

	return func(c *gin.Context) {
		ip := utils.GetClientIP(c)
		limiterMu.Lock()
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[ip] = l
		}
		l.lastSeen = time.Now()
		limiterMu.Unlock()

		if !l.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
