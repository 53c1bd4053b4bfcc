package meta

import (
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func TestParseFilenameTrackArtistTitle(t *testing.T) {
	h := parseFilename("/music/Eagles/Hotel California/01 - Eagles - Hotel California.mp3")
	if h.track != 1 || h.artist != "Eagles" || h.title != "Hotel California" {
		t.Fatalf("got %+v", h)
	}
	if h.confidence < 0.8 {
		t.Fatalf("expected high confidence, got %f", h.confidence)
	}
}

func TestParseFilenameTrackTitleOnly(t *testing.T) {
	h := parseFilename("/music/X/Y/03 - Some Song.flac")
	if h.track != 3 || h.title != "Some Song" {
		t.Fatalf("got %+v", h)
	}
}

func TestParseFilenameInfersAlbumArtistFromDir(t *testing.T) {
	h := parseFilename("/music/Pink Floyd/The Wall/05 - Comfortably Numb.flac")
	if h.artist != "Pink Floyd" || h.album != "The Wall" {
		t.Fatalf("got %+v", h)
	}
}

func TestParseFilenameYearAlbumPrefix(t *testing.T) {
	h := parseFilename("/music/Eagles/1976 - Hotel California/01 - Hotel California.mp3")
	if h.year != 1976 || h.album != "Hotel California" {
		t.Fatalf("got %+v", h)
	}
}

func TestParseFilenameDiscFolder(t *testing.T) {
	h := parseFilename("/music/Artist/Album/Disc 2/01 - Title.flac")
	if h.disc != 2 {
		t.Fatalf("expected disc 2, got %+v", h)
	}
}

func TestEnrichFromFilenameOnlyFillsAbsent(t *testing.T) {
	m := model.NewMetadataBuilder().Title("Already Set").Build()
	out := EnrichFromFilename(m, "/music/Eagles/Hotel California/01 - Eagles - Hotel California.mp3")
	if v, _ := out.Title.Get(); v != "Already Set" {
		t.Fatalf("EnrichFromFilename overwrote a present title: %q", v)
	}
	if v, _ := out.Artist.Get(); v != "Eagles" {
		t.Fatalf("expected artist filled from filename, got %q", v)
	}
}

func TestEnrichFromFilenameLowConfidenceLeavesArtistAbsent(t *testing.T) {
	m := model.Metadata{}
	out := EnrichFromFilename(m, "/justtitle.mp3")
	if _, ok := out.Artist.Get(); ok {
		t.Fatal("low-confidence parse should not fill artist")
	}
}
