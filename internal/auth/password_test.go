// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

// cheapParams keep the test suite fast.
var cheapParams = Params{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "admin123" || strings.Contains(hash, "admin123") {
		t.Fatal("hash must not contain the plaintext password")
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}

	ok, err := CheckPassword("admin123", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("CheckPassword(correct) = false, want true")
	}

	ok, err = CheckPassword("admin124", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if ok {
		t.Error("CheckPassword(wrong) = true, want false")
	}
}

func TestHashPasswordUsesRandomSalt(t *testing.T) {
	h1, err := HashWithParams("secret", cheapParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	h2, err := HashWithParams("secret", cheapParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPasswordInvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plaintext", "admin123"},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuu"},
		{"bad params", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA"},
		{"wrong version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := CheckPassword("admin123", tt.hash)
			if err == nil {
				t.Error("expected an error for malformed hash")
			}
			if ok {
				t.Error("malformed hash must never verify")
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if NeedsRehash(current) {
		t.Error("hash with default params should not need rehash")
	}

	old, err := HashWithParams("pw", cheapParams)
	if err != nil {
		t.Fatalf("HashWithParams: %v", err)
	}
	if !NeedsRehash(old) {
		t.Error("hash with non-default params should need rehash")
	}

	if !NeedsRehash("garbage") {
		t.Error("malformed hash should need rehash")
	}

	ok, err := CheckPassword("pw", old)
	if err != nil || !ok {
		t.Errorf("old-params hash should still verify: ok=%v err=%v", ok, err)
	}
}
