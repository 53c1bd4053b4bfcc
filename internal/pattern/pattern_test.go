package pattern

import (
	"strings"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func ctxFor(m model.Metadata, src string) model.PatternContext {
	return model.PatternContext{Metadata: m, SourcePath: src}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty template")
	}
}

func TestParseRejectsUnknownVariable(t *testing.T) {
	if _, err := Parse("{bogus}/{title}.{ext}"); err == nil {
		t.Fatal("expected error for unknown variable")
	}
}

func TestParseRejectsUnbalancedBrace(t *testing.T) {
	cases := []string{"{artist/{title}.{ext}", "artist}/{title}.{ext}", "{artist}/{title{.{ext}"}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("expected error for unbalanced template %q", c)
		}
	}
}

func TestEvaluateStandard(t *testing.T) {
	tpl, err := Parse(Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().
		Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Build()
	segs, err := Evaluate(tpl, ctxFor(m, "/src/song.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Eagles", "Hotel California", "01 - Hotel California.mp3"}
	if len(segs) != len(want) {
		t.Fatalf("got %v, want %v", segs, want)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, segs[i], want[i])
		}
	}
}

func TestEvaluateWithYear(t *testing.T) {
	tpl, err := Parse(WithYear)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().
		Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Year(1976).Build()
	segs, err := Evaluate(tpl, ctxFor(m, "/src/song.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(segs, "/")
	if joined != "Eagles/[1976] Hotel California/01 - Hotel California.mp3" {
		t.Fatalf("got %q", joined)
	}
}

func TestEvaluateConditionalFallback(t *testing.T) {
	tpl, err := Parse(Classical)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().
		Artist("Glenn Gould").Album("Goldberg Variations").Title("Aria").Track(1).Year(1981).Build()
	segs, err := Evaluate(tpl, ctxFor(m, "/src/song.flac"))
	if err != nil {
		t.Fatal(err)
	}
	if segs[1] != "Glenn Gould" {
		t.Fatalf("expected composer fallback to artist, got %q", segs[1])
	}
}

func TestEvaluateNoTraversalSegments(t *testing.T) {
	tpl, err := Parse(Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("..").Album("..").Title("..").Build()
	segs, err := Evaluate(tpl, ctxFor(m, "/src/song.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range segs {
		if s == ".." || s == "." {
			t.Fatalf("segment list contains traversal segment: %v", segs)
		}
	}
}

func TestEvaluateMissingTrackIsZeroPadded(t *testing.T) {
	tpl, err := Parse(Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("X").Album("Y").Title("Z").Build()
	segs, err := Evaluate(tpl, ctxFor(m, "/src/song.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	last := segs[len(segs)-1]
	if !strings.HasPrefix(last, "00 - ") {
		t.Fatalf("expected zero-padded absent track, got %q", last)
	}
}

func TestParseAcceptsEveryPreset(t *testing.T) {
	for _, raw := range []string{Standard, WithYear, Classical, GenreBased, Flat, Compilation} {
		tpl, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		if len(tpl.Segments) == 0 {
			t.Fatalf("Parse(%q) produced no segments", raw)
		}
	}
}
