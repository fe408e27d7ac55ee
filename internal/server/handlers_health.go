// internal/server/handlers_health.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessProbeTimeout = 5 * time.Second

// HealthCheck is a named dependency check run by /ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/ready", s.handleReady)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.clock.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleReady(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	for _, hc := range s.healthChecks {
		if err := hc.Check(ctx); err != nil {
			s.log.WithError(err).Warn("Readiness check failed", map[string]interface{}{"check": hc.Name})
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":       "unhealthy",
				"failed_check": hc.Name,
				"error":        err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
