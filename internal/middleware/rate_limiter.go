package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fiadopos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter ─────────────────────────────────────────────────

type ventana struct {
	count     int
	windowEnd time.Time
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	nombre  string
	limit   int
	window  time.Duration
	mensaje string

	mu      sync.Mutex
	entries map[string]*ventana
	now     func() time.Time
}

func NewRateLimiter(nombre string, limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		nombre:  nombre,
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		entries: make(map[string]*ventana),
		now:     time.Now,
	}
}

// NewLoginRateLimiter allows 20 login attempts per minute per IP.
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter("login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

// allow records one hit for key and reports whether it is within the limit.
func (l *RateLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &ventana{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// StartPurge drops expired windows every interval until ctx is done so IPs
// that never return do not accumulate.
func (l *RateLimiter) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.purge(); n > 0 {
					log.Debug().Str("limiter", l.nombre).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}

func (l *RateLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	purged := 0
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	return purged
}
