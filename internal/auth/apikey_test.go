package auth

import (
	"errors"
	"strings"
	"testing"
)

var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashKey("s3cret", testParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	verifier, err := NewKeyVerifier(hash)
	if err != nil {
		t.Fatalf("parse hash: %v", err)
	}
	if !verifier.Verify("s3cret") {
		t.Fatalf("expected key to match")
	}
	if verifier.Verify("s3cret ") || verifier.Verify("") {
		t.Fatalf("expected other keys to be rejected")
	}
}

func TestHashKeyUsesRandomSalt(t *testing.T) {
	first, err := HashKey("s3cret", testParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashKey("s3cret", testParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct hashes")
	}
}

func TestHashKeyEmpty(t *testing.T) {
	if _, err := HashKey("", testParams); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestNewKeyVerifier_EmptyHashRejectsEverything(t *testing.T) {
	verifier, err := NewKeyVerifier("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verifier.Verify("anything") {
		t.Fatalf("expected rejection without hash")
	}
}

func TestNewKeyVerifier_InvalidHash(t *testing.T) {
	tests := map[string]error{
		"plain":                                       ErrInvalidHash,
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA":  ErrInvalidHash,
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA": ErrIncompatibleVersion,
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA":    ErrInvalidHash,
		"$argon2id$v=19$m=1024,t=1,p=1$!!$aGFzaA":     ErrInvalidHash,
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$":       ErrInvalidHash,
	}
	for hash, want := range tests {
		if _, err := NewKeyVerifier(hash); !errors.Is(err, want) {
			t.Fatalf("NewKeyVerifier(%q) error = %v, want %v", hash, err, want)
		}
	}
}
