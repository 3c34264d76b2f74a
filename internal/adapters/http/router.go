package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/odonto-agenda/auth-api/config"
	v1 "github.com/odonto-agenda/auth-api/internal/adapters/http/api/v1"
	internalhttp "github.com/odonto-agenda/auth-api/internal/adapters/http/internal"
	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

type Router struct {
	cfg            *config.Config
	logger         pkglog.Logger
	apiRouter      *v1.Router
	metricsHandler stdhttp.Handler
}

func NewRouter(cfg *config.Config, logger pkglog.Logger, apiRouter *v1.Router, metricsHandler stdhttp.Handler) *Router {
	return &Router{cfg: cfg, logger: logger, apiRouter: apiRouter, metricsHandler: metricsHandler}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			event := r.logger.Info()
			if v.Error != nil || v.Status >= stdhttp.StatusInternalServerError {
				event = r.logger.Error().Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("trace_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	internalhttp.Register(e, r.metricsHandler)
	apiGroup := e.Group(r.cfg.HTTPBasePath)
	r.apiRouter.Register(apiGroup)
}
