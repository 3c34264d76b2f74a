package tokenverify

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type stubParser struct {
	token  *jwt.Token
	claims *Claims
	err    error
}

func (s stubParser) Parse(string) (*jwt.Token, *Claims, error) { return s.token, s.claims, s.err }

func claimsAt(id int64, iat, exp time.Time) *Claims {
	return &Claims{
		UserID: id,
		Email:  "ana@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestVerifySuccess(t *testing.T) {
	now := time.Now()
	p := stubParser{token: &jwt.Token{Valid: true}, claims: claimsAt(7, now, now.Add(time.Hour))}
	res, err := Verify(p, "tok", func() time.Time { return now })
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.ProfileID != 7 || res.Email != "ana@x.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.ExpiresAt.Unix() != now.Add(time.Hour).Unix() {
		t.Fatalf("exp not propagated: %v", res.ExpiresAt)
	}
}

func TestVerifyMapsParseErrors(t *testing.T) {
	_, err := Verify(stubParser{err: jwt.ErrTokenSignatureInvalid}, "tok", nil)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	_, err = Verify(stubParser{err: jwt.ErrTokenExpired}, "tok", nil)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestVerifyRejectsExpiryAtNow(t *testing.T) {
	now := time.Now()
	p := stubParser{token: &jwt.Token{Valid: true}, claims: claimsAt(7, now.Add(-time.Hour), now)}
	if _, err := Verify(p, "tok", func() time.Time { return now }); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestVerifySubjectMissing(t *testing.T) {
	now := time.Now()
	p := stubParser{token: &jwt.Token{Valid: true}, claims: claimsAt(0, now, now.Add(time.Hour))}
	if _, err := Verify(p, "tok", func() time.Time { return now }); !errors.Is(err, ErrSubjectMissing) {
		t.Fatalf("expected subject missing, got %v", err)
	}
}

func TestVerifyNilParser(t *testing.T) {
	if _, err := Verify(nil, "tok", nil); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
