package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/orgrecords/internal/handler"
)

// registerSystemRoutes mounts endpoints outside the versioned API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
