package dataManager

import (
	"net/http"

	"github.com/siherrmann/dataManager/handler"
	mw "github.com/siherrmann/dataManager/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SetupRoutes configures all routes of the data manager service
func SetupRoutes(e *echo.Echo, h *handler.ManagerHandler) {
	e.HTTPErrorHandler = handler.HandleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("data-manager")))

	// Custom Middleware
	m := mw.NewMiddleware()
	e.Use(m.RequestContextMiddleware)

	// View routes
	e.GET("/health", h.HealthCheck)
	e.GET("/data", h.DataView, m.CsrfMiddleware())

	// API routes
	api := e.Group("/api")

	data := api.Group("/data")
	data.GET("", h.GetTables)
	data.POST("", h.AddRow)
	data.GET("/:table", h.GetRows)
	data.PUT("/:id", h.UpdateRow)
	data.DELETE("/:table/:id", h.DeleteRow)

	snapshots := api.Group("/snapshot")
	snapshots.GET("", h.GetSnapshots)
	snapshots.POST("/export/:table", h.ExportSnapshot)
	snapshots.POST("/import/:name", h.ImportSnapshot)
	snapshots.DELETE("/:name", h.DeleteSnapshot)

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}
