package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	optional  map[string]Pinger
	version   string
	startedAt time.Time
	timeout   time.Duration
}

// NewHealthHandlers creates a new health handlers instance. Optional
// dependencies degrade the health status but never readiness.
func NewHealthHandlers(db Pinger, version string, optional map[string]Pinger) *HealthHandlers {
	if optional == nil {
		optional = map[string]Pinger{}
	}
	return &HealthHandlers{
		db:        db,
		optional:  optional,
		version:   version,
		startedAt: time.Now(),
		timeout:   2 * time.Second,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) check(ctx context.Context, p Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck reports the state of the database and any optional services
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string, len(h.optional)+1),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	health.Services["database"] = h.check(ctx, h.db)
	if health.Services["database"] != "healthy" {
		health.Status = "unhealthy"
	}
	for name, p := range h.optional {
		health.Services[name] = h.check(ctx, p)
		if health.Services[name] != "healthy" && health.Status == "healthy" {
			health.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	switch health.Status {
	case "degraded":
		statusCode = http.StatusPartialContent
	case "unhealthy":
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if h.check(c.Request().Context(), h.db) != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
