package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	iss := NewIssuer(secret, time.Hour)

	tok, err := iss.Issue("as@as.hu")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := NewVerifier(secret).Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Email != "as@as.hu" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "as@as.hu")
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected exp claim to be set")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := NewIssuer(secret, -1*time.Second).Issue("u@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewVerifier(secret).Verify(tok)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), time.Hour).Issue("u@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewVerifier([]byte("wrong-secret")).Verify(tok); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier([]byte("k")).Verify("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("k"), 0)
	if iss.ttl != DefaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTokenTTL, iss.ttl)
	}
}
