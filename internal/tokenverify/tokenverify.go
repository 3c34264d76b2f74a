package tokenverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid_token")
	ErrTokenExpired   = errors.New("token_expired")
	ErrSubjectMissing = errors.New("subject_missing")
)

// Claims is the session token payload: userId, email, iat, exp.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Parser interface {
	Parse(token string) (*jwt.Token, *Claims, error)
}

type Result struct {
	ProfileID int64     `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Verify parses the token and checks expiry against nowFn. Any parse or
// signature failure is ErrInvalidToken; only an expired but otherwise valid
// token yields ErrTokenExpired.
func Verify(parser Parser, token string, nowFn func() time.Time) (*Result, error) {
	if parser == nil {
		return nil, ErrInvalidToken
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	tok, claims, err := parser.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if tok == nil || !tok.Valid || claims == nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !nowFn().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if claims.UserID == 0 {
		return nil, ErrSubjectMissing
	}
	res := &Result{ProfileID: claims.UserID, Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		res.IssuedAt = claims.IssuedAt.Time
	}
	return res, nil
}
