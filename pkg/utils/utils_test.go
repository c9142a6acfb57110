package utils

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("s3cret-pass", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateJWT("42", "admin")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("expected user id 42, got %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestParseJWT_RejectsWrongSecret(t *testing.T) {
	InitJWT("secret-a", time.Hour)
	token, err := GenerateJWT("1", "customer")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	InitJWT("secret-b", time.Hour)
	if _, err := ParseJWT(token); err == nil {
		t.Error("token signed with another secret must not parse")
	}
}

func TestGenerateJWT_RequiresInit(t *testing.T) {
	InitJWT("", time.Hour)
	if _, err := GenerateJWT("1", "customer"); err == nil {
		t.Error("expected error when secret is not configured")
	}
}
