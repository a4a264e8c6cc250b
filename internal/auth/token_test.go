package auth

import (
	"errors"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if err := ValidateTokenFormat(token.Plaintext); err != nil {
		t.Errorf("generated token %q failed format validation: %v", token.Plaintext, err)
	}
	if token.Hash != HashToken(token.Plaintext) {
		t.Error("stored hash does not match hash of plaintext")
	}

	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token.Plaintext == other.Plaintext {
		t.Error("two generated tokens are identical")
	}
}

func TestValidateTokenFormat(t *testing.T) {
	cases := []struct {
		name  string
		token string
		valid bool
	}{
		{"valid", "rc_0123456789abcdef0123456789abcdef", true},
		{"empty", "", false},
		{"missing prefix", "0123456789abcdef0123456789abcdef", false},
		{"wrong prefix", "tk_0123456789abcdef0123456789abcdef", false},
		{"too short", "rc_0123456789abcdef", false},
		{"uppercase hex", "rc_0123456789ABCDEF0123456789ABCDEF", false},
		{"trailing junk", "rc_0123456789abcdef0123456789abcdef ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTokenFormat(tc.token)
			if tc.valid && err != nil {
				t.Errorf("ValidateTokenFormat(%q) = %v, want nil", tc.token, err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidTokenFormat) {
				t.Errorf("ValidateTokenFormat(%q) = %v, want ErrInvalidTokenFormat", tc.token, err)
			}
		})
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	token := "rc_0123456789abcdef0123456789abcdef"
	if HashToken(token) != HashToken(token) {
		t.Error("hashing the same token twice gave different results")
	}
	if HashToken(token) == HashToken("rc_ffffffffffffffffffffffffffffffff") {
		t.Error("different tokens hashed to the same value")
	}
	if len(HashToken(token)) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(HashToken(token)))
	}
}
