// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("examplePassword")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q", hash)
	}

	ok, err := VerifyPassword("examplePassword", hash)
	if err != nil || !ok {
		t.Errorf("correct password: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Errorf("wrong password: ok=%v err=%v", ok, err)
	}

	other, err := HashPassword("examplePassword")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if other == hash {
		t.Error("hashes share a salt")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"", "plain", "$bcrypt$v=1$x$y$z", "$argon2id$v=1$m=1,t=1,p=1$AA$AA"} {
		if _, err := VerifyPassword("pw", h); err == nil {
			t.Errorf("hash %q accepted", h)
		}
	}
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("examplePassword")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	valid, rehash, err := VerifyPasswordTimingSafe("examplePassword", &hash)
	if err != nil || !valid || rehash != "" {
		t.Errorf("known user: valid=%v rehash=%q err=%v", valid, rehash, err)
	}

	valid, _, err = VerifyPasswordTimingSafe("examplePassword", nil)
	if err != nil || valid {
		t.Errorf("unknown user: valid=%v err=%v", valid, err)
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	t.Parallel()

	a, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Error("tokens repeat")
	}
	if HashToken(a) != HashToken(a) || len(HashToken(a)) != 64 {
		t.Errorf("HashToken(a) = %q", HashToken(a))
	}
	if HashToken(a) == HashToken(b) {
		t.Error("distinct tokens share a hash")
	}
}
