package security

import (
	"testing"

	"github.com/mshirazi/datebridge/internal/models"
)

const testSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT(42, models.RoleAdmin, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, models.RoleUser, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(token, "a_completely_different_secret_of_32_chars!!"); err == nil {
		t.Error("ValidateJWT() expected error for wrong secret, got nil")
	}
}

func TestValidateJWT_Garbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", testSecret); err == nil {
		t.Error("ValidateJWT() expected error for garbage token, got nil")
	}
}

func TestSanitizeNotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain text", "the guest never joined", "the guest never joined"},
		{"Script stripped", "<script>alert(1)</script>ok", "ok"},
		{"Tags stripped", "<b>bold</b> claim", "bold claim"},
		{"Whitespace trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeNotes(tt.input); got != tt.want {
				t.Errorf("SanitizeNotes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
