package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret@123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "Secret@123" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("Secret@123", hash) {
		t.Fatalf("expected hash to verify")
	}
	if h.Verify("Secret@124", hash) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestBcryptHasher_SaltPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("Secret@123")
	b, _ := h.Hash("Secret@123")
	if a == b {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestBcryptHasher_VerifyGarbageHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("Secret@123", "") || h.Verify("Secret@123", "not-a-hash") {
		t.Fatalf("invalid hashes must not verify")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
	if h := NewBcryptHasher(bcrypt.MinCost); h.cost != bcrypt.MinCost {
		t.Fatalf("expected min cost, got %d", h.cost)
	}
}
