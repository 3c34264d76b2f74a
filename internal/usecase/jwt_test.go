package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/odonto-agenda/auth-api/config"
	"github.com/odonto-agenda/auth-api/internal/tokenverify"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestSigner(t *testing.T, secret string, clock *testClock) *jwtSigner {
	t.Helper()
	s, err := newJWTSigner(secret, SessionTTL, clock.Now)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	return s
}

func TestIssueTokenRoundTrip(t *testing.T) {
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestSigner(t, "segredo", clock)

	token, err := s.IssueToken(42, "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	res, err := tokenverify.Verify(s, token, clock.Now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.ProfileID != 42 || res.Email != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", res)
	}
	if got := res.ExpiresAt.Sub(res.IssuedAt); got != 604800*time.Second {
		t.Fatalf("exp - iat = %v", got)
	}
	if !res.IssuedAt.Equal(clock.t) {
		t.Fatalf("iat = %v", res.IssuedAt)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestSigner(t, "segredo", clock)
	token, err := s.IssueToken(42, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}

	clock.t = clock.t.Add(SessionTTL + time.Second)
	if _, err := tokenverify.Verify(s, token, clock.Now); !errors.Is(err, tokenverify.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	clock := &testClock{t: time.Now()}
	token, err := newTestSigner(t, "segredo-a", clock).IssueToken(42, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	other := newTestSigner(t, "segredo-b", clock)
	if _, err := tokenverify.Verify(other, token, clock.Now); !errors.Is(err, tokenverify.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	clock := &testClock{t: time.Now()}
	s := newTestSigner(t, "segredo", clock)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := tokenverify.Verify(s, tok, clock.Now); !errors.Is(err, tokenverify.ErrInvalidToken) {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewJWTSignerSecretFallback(t *testing.T) {
	s, err := NewJWTSigner(&config.Config{AppEnv: "local"})
	if err != nil {
		t.Fatalf("local env should fall back to the development secret: %v", err)
	}
	if _, err := s.IssueToken(1, "a@b.c"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTSigner(&config.Config{AppEnv: "production"}); err == nil {
		t.Fatal("production without a secret must fail")
	}
}
