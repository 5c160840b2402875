package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, err := tokens.Issue("game-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tokens.Verify(raw)
	if err != nil || got != "game-1" {
		t.Errorf("Verify = %q, %v", got, err)
	}
}

func TestTokensReject(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	valid, _ := tokens.Issue("game-1")
	foreign, _ := NewTokens("other", time.Minute).Issue("game-1")
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "game-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		raw   string
		after time.Duration
	}{
		{name: "expired", raw: valid, after: 2 * time.Minute},
		{name: "wrong secret", raw: foreign},
		{name: "alg none", raw: unsigned},
		{name: "garbage", raw: "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens.now = func() time.Time { return issued.Add(tt.after) }
			if _, err := tokens.Verify(tt.raw); err != errNoSession {
				t.Errorf("Verify err = %v, want errNoSession", err)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		target string
		want   string
	}{
		{name: "bearer", header: "Bearer abc", target: "/", want: "abc"},
		{name: "query", target: "/?token=xyz", want: "xyz"},
		{name: "header wins", header: "Bearer abc", target: "/?token=xyz", want: "abc"},
		{name: "basic auth", header: "Basic abc", target: "/"},
		{name: "none", target: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := tokenFromRequest(req)
			if got != tt.want || (tt.want == "") != (err != nil) {
				t.Errorf("tokenFromRequest = %q, %v", got, err)
			}
		})
	}
}

func TestCheckAdminPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	if err := checkAdminPassword(string(hash), "pw"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := checkAdminPassword(string(hash), "nope"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := checkAdminPassword(string(hash), ""); err == nil {
		t.Error("missing password accepted")
	}
	if err := checkAdminPassword("", ""); err != nil {
		t.Errorf("no hash configured: %v", err)
	}
}
