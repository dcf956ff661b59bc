// Package router builds the echo router: global middleware, the system
// routes and the versioned API groups.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/orgrecords/internal/handler"
	"github.com/deppfellow/orgrecords/internal/middleware"
	"github.com/deppfellow/orgrecords/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// RequestID must precede the context enhancer, which reads it.
	router.Use(
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerV1Routes(v1, h)

	return router
}

func registerV1Routes(g *echo.Group, h *handler.Handlers) {
	h.Departments.Register(g.Group("/departments"))
	h.Employees.Register(g.Group("/employees"))
}
