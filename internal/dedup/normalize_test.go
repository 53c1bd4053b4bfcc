package dedup

import "testing"

func TestNormalizeArtistMovesTheSuffix(t *testing.T) {
	if got := normalizeArtist("Beatles, The"); got != "the beatles" {
		t.Fatalf("expected %q, got %q", "the beatles", got)
	}
}

func TestNormalizeArtistCaseAndWhitespaceInsensitive(t *testing.T) {
	a := normalizeArtist("  EAGLES  ")
	b := normalizeArtist("eagles")
	if a != b {
		t.Fatalf("expected equal normalization, got %q vs %q", a, b)
	}
}

func TestNormalizeTitleStripsVersionMarkers(t *testing.T) {
	got := normalizeTitle("Hotel California (Remastered 2013)")
	if got != "hotel california" {
		t.Fatalf("expected %q, got %q", "hotel california", got)
	}
}

func TestDetectVersionTypePrecedence(t *testing.T) {
	cases := map[string]string{
		"Song (Live at Wembley)":  "live",
		"Song (Acoustic Version)": "acoustic",
		"Song (Club Remix)":       "remix",
		"Song (Demo)":             "demo",
		"Song (Instrumental)":     "instrumental",
		"Song (Remastered)":       "studio",
		"Song":                    "studio",
	}
	for title, want := range cases {
		if got := DetectVersionType(title); got != want {
			t.Errorf("DetectVersionType(%q) = %q, want %q", title, got, want)
		}
	}
}
