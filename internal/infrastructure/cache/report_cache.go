// Package cache implementa el cache de reportes analíticos sobre Redis.
// Los reportes agregados son costosos de calcular y toleran unos minutos de
// obsolescencia; el TTL lo fija el caso de uso.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invorya/ledger-api/internal/application/analytics"
)

var _ analytics.ReportCache = (*RedisReportCache)(nil)

// RedisReportCache guarda reportes serializados como JSON bajo una llave por
// (reporte, empresa, parámetros).
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache construye el cache sobre un cliente Redis ya conectado.
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client}
}

// Get carga un reporte cacheado en dest. Devuelve (false, nil) si la llave no existe.
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Entrada corrupta o de una versión anterior del DTO: tratar como miss.
		return false, nil
	}
	return true, nil
}

// Set guarda un reporte con TTL.
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
