package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash("Secure123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Secure123" {
		t.Fatal("stored hash must never equal the plaintext")
	}
	ok, err := h.Verify(hash, "Secure123")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification success")
	}
	ok, err = h.Verify(hash, "Secure124")
	if err != nil {
		t.Fatalf("verify wrong password errored: %v", err)
	}
	if ok {
		t.Fatal("expected password verification failure")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct hashes for the same password")
	}
}

func TestNewPasswordHasherDefaultsCost(t *testing.T) {
	h := NewPasswordHasher(0)
	hash, err := h.Hash("Secure123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost != DefaultPasswordCost {
		t.Fatalf("expected cost %d, got %d", DefaultPasswordCost, cost)
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	ok, err := h.Verify("not-a-bcrypt-hash", "Secure123")
	if err == nil {
		t.Fatal("expected malformed hash error")
	}
	if ok {
		t.Fatal("malformed hash must not verify")
	}
}

func TestPasswordFingerprintChangesWithHash(t *testing.T) {
	a := PasswordFingerprint("$2a$10$aaaa")
	b := PasswordFingerprint("$2a$10$bbbb")
	if a == b {
		t.Fatal("expected different fingerprints")
	}
	if len(a) != 16 || strings.ContainsAny(a, "$") {
		t.Fatalf("unexpected fingerprint format: %q", a)
	}
}

func TestVerifyRejectsPasswordOverByteLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := h.Verify(hash, strings.Repeat("a", MaxPasswordBytes+1))
	if err != nil || ok {
		t.Fatalf("expected a plain mismatch for an over-long password, got ok=%v err=%v", ok, err)
	}
}
