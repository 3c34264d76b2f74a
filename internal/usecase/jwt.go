package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odonto-agenda/auth-api/config"
	"github.com/odonto-agenda/auth-api/internal/tokenverify"
)

// SessionTTL is the default session token lifetime (604800 seconds).
const SessionTTL = 7 * 24 * time.Hour

type TokenSigner interface {
	IssueToken(profileID int64, email string) (string, error)
	Parse(token string) (*jwt.Token, *tokenverify.Claims, error)
}

type jwtSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewJWTSigner(cfg *config.Config) (TokenSigner, error) {
	secret, err := cfg.SigningSecret()
	if err != nil {
		return nil, err
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return newJWTSigner(secret, ttl, time.Now)
}

func newJWTSigner(secret string, ttl time.Duration, now func() time.Time) (*jwtSigner, error) {
	if secret == "" {
		return nil, errors.New("jwt secret required")
	}
	return &jwtSigner{key: []byte(secret), ttl: ttl, now: now}, nil
}

func (s *jwtSigner) IssueToken(profileID int64, email string) (string, error) {
	now := s.now().UTC().Truncate(time.Second)
	claims := tokenverify.Claims{
		UserID: profileID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *jwtSigner) Parse(tokenStr string) (*jwt.Token, *tokenverify.Claims, error) {
	claims := &tokenverify.Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	return token, claims, err
}
