package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lotusroom/enroll-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	token, err := svc.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("issue token: expected token, got empty string")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("expected email %q got %q", "alice@example.com", claims.Email)
	}
	if claims.Subject != "alice@example.com" {
		t.Fatalf("expected subject %q got %q", "alice@example.com", claims.Subject)
	}
}

func TestAuthService_ExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.TokenExpiry = -time.Minute
	svc := NewAuthService(cfg)

	token, err := svc.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired in chain, got %v", err)
	}
}

func TestAuthService_WrongSecret(t *testing.T) {
	issuer := NewAuthService(testAuthConfig())

	otherCfg := testAuthConfig()
	otherCfg.TokenSecret = "different-secret"
	verifier := NewAuthService(otherCfg)

	token, err := issuer.IssueToken("alice@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestAuthService_GarbageToken(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestAuthService_PasswordHashing(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := svc.CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("check password: expected match, got %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
