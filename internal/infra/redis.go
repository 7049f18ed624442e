package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates a go-redis client and pings it before returning.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

// ── Price lookup cache ───────────────────────────────────────────────────────

const precioCacheTTL = 10 * time.Minute

// PrecioCache stores public price lookups by barcode. A nil cache (no Redis)
// is valid and always misses.
type PrecioCache struct {
	rdb *redis.Client
}

func NewPrecioCache(rdb *redis.Client) *PrecioCache {
	if rdb == nil {
		return nil
	}
	return &PrecioCache{rdb: rdb}
}

func precioKey(codigo string) string { return "precio:" + codigo }

// Get decodes the cached entry into dest and reports whether it was found.
func (c *PrecioCache) Get(ctx context.Context, codigo string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, precioKey(codigo)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set is best effort; errors are ignored.
func (c *PrecioCache) Set(ctx context.Context, codigo string, v any) {
	if c == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, precioKey(codigo), b, precioCacheTTL).Err()
	}
}

func (c *PrecioCache) Invalidar(ctx context.Context, codigo string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, precioKey(codigo)).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("precio cache: invalidation failed")
	}
}
