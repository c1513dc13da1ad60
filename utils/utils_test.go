package utils

import "testing"

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(12)
	if len(s) != 12 {
		t.Fatalf("length: got %d", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %s", r, s)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name+tag@example.co.uk"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("%s should be valid", e)
		}
	}
	invalid := []string{"", "nope", "@missing.local", "spaces in@addr.com"}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("%s should be invalid", e)
		}
	}
}
