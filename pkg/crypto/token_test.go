package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyToken(t *testing.T) {
	hash, err := HashToken("local-api-token", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	if err := VerifyToken("local-api-token", hash); err != nil {
		t.Errorf("VerifyToken failed for correct token: %v", err)
	}
	if err := VerifyToken("wrong-token", hash); !errors.Is(err, ErrTokenMismatch) {
		t.Errorf("expected ErrTokenMismatch, got %v", err)
	}
}

func TestHashToken_Errors(t *testing.T) {
	if _, err := HashToken("", bcrypt.MinCost); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("expected ErrEmptyToken, got %v", err)
	}
	if _, err := HashToken(strings.Repeat("a", 73), bcrypt.MinCost); !errors.Is(err, ErrTokenTooLong) {
		t.Errorf("expected ErrTokenTooLong, got %v", err)
	}
}

func TestHashToken_CostOutOfRangeUsesDefault(t *testing.T) {
	hash, err := HashToken("token", 1)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost failed: %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("cost = %d, want %d", cost, DefaultCost)
	}
}

func TestVerifyToken_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		hash  string
		want  error
	}{
		{"empty token", "", "$2a$04$abc", ErrEmptyToken},
		{"empty hash", "token", "", ErrInvalidHash},
		{"garbage hash", "token", "not-a-bcrypt-hash", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyToken(tt.token, tt.hash); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
