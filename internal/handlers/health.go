package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedpay/internal/logging"
)

const healthTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// PoolStatsFunc reports the cache connection pool.
type PoolStatsFunc func() *redis.PoolStats

// HealthHandler reports the state of the store and the cache.
type HealthHandler struct {
	checks  map[string]Check
	stats   PoolStatsFunc
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a HealthHandler. stats may be nil when no cache is
// configured.
func NewHealthHandler(version string, checks map[string]Check, stats PoolStatsFunc, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, stats: stats, version: version, logger: logging.OrNop(logger)}
}

// HealthCheck handles GET /health. Any failing dependency turns the response
// into a 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	code := fiber.StatusOK
	services := fiber.Map{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
			services[name] = "unavailable"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		services[name] = "connected"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	})
}

// CacheStats handles GET /health/cache.
func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	if h.stats == nil {
		return c.JSON(fiber.Map{"enabled": false})
	}

	poolStats := h.stats()
	return c.JSON(fiber.Map{
		"enabled": true,
		"pool_stats": fiber.Map{
			"hits":        poolStats.Hits,
			"misses":      poolStats.Misses,
			"timeouts":    poolStats.Timeouts,
			"total_conns": poolStats.TotalConns,
			"idle_conns":  poolStats.IdleConns,
			"stale_conns": poolStats.StaleConns,
		},
	})
}
