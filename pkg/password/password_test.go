package password

import (
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Password123!")
	if err != nil {
		t.Fatalf("Hash() returned error: %v", err)
	}
	if hash == "Password123!" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := Verify("Password123!", hash); err != nil {
		t.Errorf("Verify() with correct password returned error: %v", err)
	}

	if err := Verify("wrong-password", hash); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify() with wrong password = %v, want ErrInvalidPassword", err)
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestVerify_EmptyInputs(t *testing.T) {
	if err := Verify("", "somehash"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify with empty password = %v, want ErrInvalidPassword", err)
	}
	if err := Verify("password", ""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify with empty hash = %v, want ErrInvalidPassword", err)
	}
}
