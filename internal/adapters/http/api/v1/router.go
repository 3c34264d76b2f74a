package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/odonto-agenda/auth-api/internal/adapters/http/api/v1/handlers"
)

type Router struct {
	handlers *handlers.AuthHandler
	authMW   echo.MiddlewareFunc
}

func NewRouter(h *handlers.AuthHandler, authMW echo.MiddlewareFunc) *Router {
	return &Router{handlers: h, authMW: authMW}
}

func (r *Router) Register(g *echo.Group) {
	g.POST("/cadastro", r.handlers.Signup)
	g.POST("/login", r.handlers.Login)

	protected := g.Group("", r.authMW)
	protected.GET("/perfil", r.handlers.Profile)
	protected.GET("/sessao", r.handlers.Session)
}
