package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/orgrecords/internal/middleware"
	"github.com/deppfellow/orgrecords/internal/server"
)

// HealthHandler reports whether the service and its record store are
// reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]any),
	}

	checks := response["checks"].(map[string]any)
	isHealthy := true

	timeout := 5 * time.Second
	checksEnabled := true
	if obs := h.server.Config.Observability; obs != nil {
		checksEnabled = obs.HealthChecks.Enabled
		if obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}
	}

	if checksEnabled {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		dbStart := time.Now()
		if err := h.server.DB.Ping(ctx); err != nil {
			checks["database"] = map[string]any{
				"status":        "unhealthy",
				"driver":        string(h.server.DB.Dialect()),
				"response_time": time.Since(dbStart).String(),
				"error":         err.Error(),
			}
			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check failed")
		} else {
			checks["database"] = map[string]any{
				"status":        "healthy",
				"driver":        string(h.server.DB.Dialect()),
				"response_time": time.Since(dbStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(dbStart)).
				Msg("database health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
