package token

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	signed, err := issuer.Issue("user-1", "receptionist")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Validate(signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "receptionist" {
		t.Errorf("Role = %q, want receptionist", claims.Role)
	}
	if claims.ID == "" {
		t.Error("token id is empty")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret", time.Hour).Issue("user-1", "guest")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = NewIssuer("other-secret", time.Hour).Validate(signed)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	issuer := NewIssuer("secret", -time.Minute)

	signed, err := issuer.Issue("user-1", "guest")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = issuer.Validate(signed)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Validate("not.a.token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
