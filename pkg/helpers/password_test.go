package helpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("p@ss")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "p@ss" {
		t.Fatal("expected hash to differ from plaintext")
	}
	if !h.Verify(hash, "p@ss") {
		t.Fatal("expected hash to verify original password")
	}
	if h.Verify(hash, "other") {
		t.Fatal("expected mismatch for a different password")
	}
	if h.Verify("", "") {
		t.Fatal("expected empty hash to never verify")
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	if got := NewBcryptHasher(0).Cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MaxCost + 1).Cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestBcryptHasherUsesConfiguredCost(t *testing.T) {
	hash, err := NewBcryptHasher(bcrypt.MinCost + 1).Hash("p@ss")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.MinCost+1 {
		t.Fatalf("expected cost %d, got %d", bcrypt.MinCost+1, cost)
	}
}
