package internalhttp

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register attaches the health and metrics endpoints.
func Register(e *echo.Echo, metricsHandler http.Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
}
