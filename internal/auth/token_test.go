package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "layla",
		Role:     models.RoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := testUser()

	token, err := issuer.Generate(user)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("user id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Username != "layla" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Generate(testUser())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewTokenIssuer("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := issuer.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
