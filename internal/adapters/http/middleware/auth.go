package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/odonto-agenda/auth-api/internal/metrics"
	"github.com/odonto-agenda/auth-api/internal/tokenverify"
	res "github.com/odonto-agenda/auth-api/pkg/http"
	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

// Keys the guard sets on the echo context.
const (
	ProfileIDKey = "profile_id"
	EmailKey     = "email"
	ClaimsKey    = "claims"
)

type AuthMiddleware struct {
	parser  tokenverify.Parser
	metrics metrics.Recorder
	logger  pkglog.Logger
	now     func() time.Time
}

func NewAuthMiddleware(parser tokenverify.Parser, recorder metrics.Recorder, logger pkglog.Logger) *AuthMiddleware {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthMiddleware{parser: parser, metrics: recorder, logger: logger, now: time.Now}
}

// Handler rejects requests without a bearer token with 401, bad or expired
// tokens with 403 and verification faults with 500.
func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		traceID := res.RequestID(c)
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			m.metrics.RecordGuardRejection("missing")
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "Token não fornecido", traceID, nil)
		}
		result, err := m.verify(token)
		switch {
		case err == nil:
		case errors.Is(err, tokenverify.ErrTokenExpired):
			m.metrics.RecordGuardRejection("expired")
			return res.ErrorJSON(c, http.StatusForbidden, "token_expired", "Token expirado", traceID, nil)
		case errors.Is(err, tokenverify.ErrInvalidToken), errors.Is(err, tokenverify.ErrSubjectMissing):
			m.metrics.RecordGuardRejection("invalid")
			return res.ErrorJSON(c, http.StatusForbidden, "forbidden", "Token inválido", traceID, nil)
		default:
			m.metrics.RecordGuardRejection("error")
			m.logger.Error().Err(err).Str("trace_id", traceID).Msg("token verification failed")
			return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", "Erro interno do servidor", traceID, nil)
		}
		c.Set(ProfileIDKey, result.ProfileID)
		c.Set(EmailKey, result.Email)
		c.Set(ClaimsKey, result)
		return next(c)
	}
}

func (m *AuthMiddleware) verify(token string) (result *tokenverify.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("token verification panic: %v", r)
		}
	}()
	return tokenverify.Verify(m.parser, token, m.now)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
