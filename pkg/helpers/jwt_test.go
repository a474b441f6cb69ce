package helpers

import (
	"testing"
	"time"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, "accounts")
	tok, exp, err := m.GenerateAccessToken(42, "ADMIN")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	claims, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("expected user id 42, got %d (%v)", id, err)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %q", claims.Role)
	}
}

func TestJWTManagerRejectsForeignSecret(t *testing.T) {
	tok, _, err := NewJWTManager("one", time.Minute, "").GenerateAccessToken(1, "BUYER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("two", time.Minute, "").ParseAccessToken(tok); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "")
	tok, _, err := m.GenerateAccessToken(1, "BUYER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
