package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/samdevvv/telofundi/internal/cache"
	"github.com/samdevvv/telofundi/internal/handler/response"
)

type HealthHandler struct {
	db      *gorm.DB
	cache   *cache.RedisCache
	log     *slog.Logger
	startAt time.Time
}

func NewHealthHandler(db *gorm.DB, rc *cache.RedisCache, log *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: rc, log: log, startAt: time.Now()}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. The database is required; Redis only
// degrades job locking, so a Redis failure is reported but not fatal.
// Probe errors are logged, never returned in the body.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	status := "healthy"

	if err := h.pingDB(ctx); err != nil {
		h.log.Error("readiness: database ping failed", "err", err)
		checks["database"] = gin.H{"status": "down"}
		status = "unhealthy"
	} else {
		checks["database"] = gin.H{"status": "up"}
	}

	switch {
	case h.cache == nil:
		checks["redis"] = gin.H{"status": "disabled"}
	case h.pingRedis(ctx) != nil:
		checks["redis"] = gin.H{"status": "down"}
		if status == "healthy" {
			status = "degraded"
		}
	default:
		checks["redis"] = gin.H{"status": "up"}
	}

	body := gin.H{
		"status":         status,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
	}
	if status == "unhealthy" {
		response.FailWithData(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable", body)
		return
	}
	response.OK(c, http.StatusOK, body)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthHandler) pingRedis(ctx context.Context) error {
	err := h.cache.Ping(ctx)
	if err != nil {
		h.log.Warn("readiness: redis ping failed", "err", err)
	}
	return err
}
