package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"gakkaihub/internal/caching"
	"gakkaihub/internal/jobs/background"
	"gakkaihub/internal/storage"
)

// HealthHandlers serves liveness, readiness, and dependency health probes.
type HealthHandlers struct {
	db        *pgxpool.Pool
	cache     caching.CacheService
	store     storage.FileStore
	bucket    string
	scheduler *background.JobScheduler
}

func NewHealthHandlers(db *pgxpool.Pool, cache caching.CacheService, store storage.FileStore, bucket string, scheduler *background.JobScheduler) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		store:     store,
		bucket:    bucket,
		scheduler: scheduler,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck reports per-dependency status. Redis and storage failures
// degrade the status without taking the service down; only the database
// is critical.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.cache.Ping(ctx); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	if err := h.store.EnsureBucketExists(ctx, h.bucket); err != nil {
		health.Services["storage"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["storage"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if _, err := h.db.Exec(c.Request().Context(), "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// JobStatus exposes the background scheduler's registered jobs for the
// operator console.
func (h *HealthHandlers) JobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"jobs":       h.scheduler.GetJobStatus(),
	})
}
