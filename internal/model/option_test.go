package model

import (
	"encoding/json"
	"testing"
)

func TestOptionGetAndOrElse(t *testing.T) {
	present := Some(42)
	if v, ok := present.Get(); !ok || v != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", v, ok)
	}
	if got := present.OrElse(0); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}

	absent := None[int]()
	if _, ok := absent.Get(); ok {
		t.Fatalf("expected absent option to report ok=false")
	}
	if got := absent.OrElse(7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestOptFromTreatsZeroAsAbsent(t *testing.T) {
	if OptFrom(0).IsPresent() {
		t.Fatalf("expected OptFrom(0) to be absent")
	}
	if !OptFrom(3).IsPresent() {
		t.Fatalf("expected OptFrom(3) to be present")
	}
}

func TestOptionJSONRoundTrip(t *testing.T) {
	type record struct {
		Track Option[int]    `json:"track"`
		Genre Option[string] `json:"genre"`
	}

	original := record{Track: Some(5), Genre: None[string]()}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v, ok := decoded.Track.Get(); !ok || v != 5 {
		t.Fatalf("expected track=5, got (%d, %v)", v, ok)
	}
	if decoded.Genre.IsPresent() {
		t.Fatalf("expected genre to stay absent across a null round trip")
	}
}
