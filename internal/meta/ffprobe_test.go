package meta

import "testing"

func TestIntOrStringUnmarshalNumber(t *testing.T) {
	var v intOrString
	if err := v.UnmarshalJSON([]byte("16")); err != nil {
		t.Fatal(err)
	}
	if v.Value != 16 {
		t.Fatalf("got %d, want 16", v.Value)
	}
}

func TestIntOrStringUnmarshalStringNA(t *testing.T) {
	var v intOrString
	if err := v.UnmarshalJSON([]byte(`"N/A"`)); err != nil {
		t.Fatal(err)
	}
	if v.Value != 0 {
		t.Fatalf("got %d, want 0", v.Value)
	}
}

func TestIntOrStringUnmarshalDigitString(t *testing.T) {
	var v intOrString
	if err := v.UnmarshalJSON([]byte(`"24"`)); err != nil {
		t.Fatal(err)
	}
	if v.Value != 24 {
		t.Fatalf("got %d, want 24", v.Value)
	}
}

func TestIsLosslessCodec(t *testing.T) {
	cases := map[string]bool{
		"flac":     true,
		"alac":     true,
		"pcm_s16le": true,
		"mp3":      false,
		"aac":      false,
	}
	for codec, want := range cases {
		if got := isLosslessCodec(codec); got != want {
			t.Errorf("isLosslessCodec(%q) = %v, want %v", codec, got, want)
		}
	}
}

func TestGetTagPrefersFirstPresentKey(t *testing.T) {
	tags := map[string]string{"ALBUM_ARTIST": "Various"}
	if got := getTag(tags, "album_artist", "ALBUM_ARTIST"); got != "Various" {
		t.Fatalf("got %q", got)
	}
}
