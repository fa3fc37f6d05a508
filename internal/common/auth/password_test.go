package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	hash, err := HashPassword("s3cret!", salt)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword("s3cret!", salt, hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashPasswordSaltMatters(t *testing.T) {
	s1, _ := GenerateSaltHex()
	s2, _ := GenerateSaltHex()
	if s1 == s2 {
		t.Fatal("salts should be random")
	}
	h1, err := HashPassword("same", s1)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same", s2)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("different salts should produce different hashes")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	salt, _ := GenerateSaltHex()
	if _, err := HashPassword("", salt); err == nil {
		t.Fatal("empty password should be rejected")
	}
	if _, err := HashPassword("x", "not-hex"); err == nil {
		t.Fatal("bad salt should be rejected")
	}
}
