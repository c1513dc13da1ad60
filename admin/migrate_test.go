package admin

import "testing"

func TestLegacyDateClientTokens(t *testing.T) {
	// Booking clients send day_month_year without padding.
	cases := map[string]string{
		"28_8_2025":  "2025-08-28",
		"1_12_2024":  "2024-12-01",
		"05_09_2025": "2025-09-05",
	}
	for token, want := range cases {
		got, ok := legacyDate(token)
		if !ok || got != want {
			t.Errorf("%s: got %q ok=%v, want %q", token, got, ok, want)
		}
	}
}

func TestLegacyDateYearFirstTokens(t *testing.T) {
	got, ok := legacyDate("2025_08_28")
	if !ok || got != "2025-08-28" {
		t.Fatalf("got %q ok=%v, want 2025-08-28", got, ok)
	}
}

func TestLegacyDateRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "2025-08-28", "28_8", "a_b_c", "31_2_2025", "28_8_25"} {
		if got, ok := legacyDate(token); ok {
			t.Errorf("%q: expected rejection, got %q", token, got)
		}
	}
}
