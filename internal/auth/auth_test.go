package auth

import (
	"testing"

	"github.com/yemenflix/yemenflix-server/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password should be rejected")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestCheckPermission(t *testing.T) {
	tests := []struct {
		have models.UserRole
		need models.UserRole
		want bool
	}{
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleAdmin, models.RoleUser, true},
		{models.RoleUser, models.RoleUser, true},
		{models.RoleUser, models.RoleAdmin, false},
	}
	for _, tt := range tests {
		if got := CheckPermission(tt.have, tt.need); got != tt.want {
			t.Errorf("CheckPermission(%s, %s) = %v, want %v", tt.have, tt.need, got, tt.want)
		}
	}
}
