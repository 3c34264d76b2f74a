package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odonto-agenda/auth-api/internal/adapters/http/middleware"
	"github.com/odonto-agenda/auth-api/internal/domain"
	"github.com/odonto-agenda/auth-api/internal/tokenverify"
	"github.com/odonto-agenda/auth-api/internal/usecase"
	res "github.com/odonto-agenda/auth-api/pkg/http"
	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

const msgInternal = "Erro interno do servidor"

type AuthHandler struct {
	service usecase.Service
	logger  pkglog.Logger
}

func NewAuthHandler(s usecase.Service, logger pkglog.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       int64            `json:"id"`
	AuthID   string           `json:"authId"`
	Email    string           `json:"email"`
	Token    string           `json:"token"`
	Identity *domain.Identity `json:"identity"`
	Profile  *domain.Profile  `json:"profile"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	req := new(usecase.SignupInput)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "Requisição inválida", res.RequestID(c), nil)
	}
	reg, err := h.service.Register(c.Request().Context(), res.RequestID(c), *req)
	if err != nil {
		return h.fail(c, err)
	}
	return res.User(c, http.StatusOK, reg)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "Requisição inválida", res.RequestID(c), nil)
	}
	result, err := h.service.Login(c.Request().Context(), res.RequestID(c), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return res.User(c, http.StatusOK, loginResponse{
		ID:       result.Profile.ID,
		AuthID:   result.Identity.ID,
		Email:    result.Profile.Email,
		Token:    result.Token,
		Identity: result.Identity,
		Profile:  result.Profile,
	})
}

// Profile returns the caller's own row. Requires the session guard.
func (h *AuthHandler) Profile(c echo.Context) error {
	profileID, ok := c.Get(middleware.ProfileIDKey).(int64)
	if !ok {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "Token não fornecido", res.RequestID(c), nil)
	}
	profile, err := h.service.GetProfile(c.Request().Context(), res.RequestID(c), profileID)
	if err != nil {
		return h.fail(c, err)
	}
	return res.User(c, http.StatusOK, profile)
}

// Session echoes the verified token claims.
func (h *AuthHandler) Session(c echo.Context) error {
	claims, ok := c.Get(middleware.ClaimsKey).(*tokenverify.Result)
	if !ok {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "Token não fornecido", res.RequestID(c), nil)
	}
	return res.User(c, http.StatusOK, claims)
}

func (h *AuthHandler) fail(c echo.Context, err error) error {
	status, code, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("trace_id", res.RequestID(c)).Str("path", c.Path()).Msg("request failed")
	}
	return res.ErrorJSON(c, status, code, message, res.RequestID(c), nil)
}

// statusFor maps service errors to HTTP status, error code and client message.
func statusFor(err error) (int, string, string) {
	var e *usecase.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "internal_error", msgInternal
	}
	switch e.Kind {
	case usecase.ErrValidation:
		return http.StatusBadRequest, "validation_error", e.Message
	case usecase.ErrDateFormat:
		return http.StatusBadRequest, "invalid_birth_date", e.Message
	case usecase.ErrIdentityCreationFailed:
		return http.StatusBadRequest, "identity_creation_failed", e.Message
	case usecase.ErrProfileCreationFailed:
		return http.StatusBadRequest, "profile_creation_failed", e.Message
	case usecase.ErrInvalidCredentials, usecase.ErrAuthentication:
		return http.StatusBadRequest, "invalid_credentials", e.Message
	case usecase.ErrProfileNotFound:
		return http.StatusNotFound, "not_found", e.Message
	default:
		return http.StatusInternalServerError, "internal_error", msgInternal
	}
}
