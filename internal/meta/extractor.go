// Package meta turns one audio file path into a model.Metadata record. Tag
// fields come from dhowden/tag (fast, in-process); audio properties (codec,
// bit depth, sample rate) come from an ffprobe subprocess, since no pure-Go
// tag library exposes them. The two results are merged the way the
// teacher's extractor merges them: ffprobe's audio properties as the base,
// tag-library fields overlaid on top because they're usually more precise.
package meta

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// Extract reads tags and audio properties from path and returns a frozen
// Metadata record. It never fails outright unless both extraction paths
// fail — a file with only tags (no ffprobe) or only audio properties (no
// tags) still returns a partial but usable record.
func Extract(path string) (model.Metadata, error) {
	tagResult, tagErr := extractWithTag(path)
	ffResult, ffErr := extractWithFFprobe(path)

	if tagErr != nil && ffErr != nil {
		return model.Metadata{}, fmt.Errorf("%w: tag: %v; ffprobe: %v", xerr.ExtractionFailed, tagErr, ffErr)
	}

	b := model.NewMetadataBuilder()

	if ffResult != nil {
		applyFFprobe(b, ffResult)
	}
	if tagResult != nil {
		applyTag(b, tagResult)
	}

	m := b.Build()
	m = EnrichFromFilename(m, path)
	m = CleanMetadata(m, path)
	return m, nil
}

// isValidYear enforces spec.md §3's 1900-2030 range for a present year; a
// tag-reported year outside that range is treated as absent, never clamped.
func isValidYear(year int) bool {
	return year >= 1900 && year <= 2030
}

// isValidBitrate enforces spec.md §3's 8-2000 kbps range for a present
// bitrate.
func isValidBitrate(kbps int) bool {
	return kbps >= 8 && kbps <= 2000
}

type tagExtraction struct {
	format      string
	artist      string
	album       string
	title       string
	albumArtist string
	composer    string
	genre       string
	year        int
	track       int
	trackTotal  int
	disc        int
	discTotal   int
	compilation bool
	hasCompTag  bool
	cover       []byte
}

func extractWithTag(path string) (*tagExtraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("reading tags from %s: %w", path, err)
	}

	track, trackTotal := m.Track()
	disc, discTotal := m.Disc()

	out := &tagExtraction{
		format:      string(m.Format()),
		artist:      m.Artist(),
		album:       m.Album(),
		title:       m.Title(),
		albumArtist: m.AlbumArtist(),
		composer:    m.Composer(),
		genre:       m.Genre(),
		year:        m.Year(),
		track:       track,
		trackTotal:  trackTotal,
		disc:        disc,
		discTotal:   discTotal,
	}

	if pic := m.Picture(); pic != nil {
		out.cover = pic.Data
	}

	if raw := m.Raw(); raw != nil {
		for _, key := range []string{"TCMP", "cpil", "COMPILATION", "compilation", "Compilation"} {
			val, ok := raw[key]
			if !ok {
				continue
			}
			switch v := val.(type) {
			case string:
				out.compilation = v == "1" || strings.EqualFold(v, "true")
			case int:
				out.compilation = v == 1
			case bool:
				out.compilation = v
			}
			out.hasCompTag = true
			if out.compilation {
				break
			}
		}
	}

	return out, nil
}

func applyTag(b *model.MetadataBuilder, t *tagExtraction) {
	if t.artist != "" {
		b.Artist(t.artist)
	}
	if t.album != "" {
		b.Album(t.album)
	}
	if t.title != "" {
		b.Title(t.title)
	}
	if t.albumArtist != "" {
		b.AlbumArtist(t.albumArtist)
	}
	if t.composer != "" {
		b.Composer(t.composer)
	}
	if t.genre != "" {
		b.Genre(t.genre)
	}
	if isValidYear(t.year) {
		b.Year(t.year)
	}
	if t.track >= 1 {
		b.Track(t.track)
	}
	if t.trackTotal >= 1 {
		b.TrackTotal(t.trackTotal)
	}
	if t.disc >= 1 {
		b.Disc(t.disc)
	}
	if t.discTotal >= 1 {
		b.DiscTotal(t.discTotal)
	}
	if t.format != "" {
		b.Format(t.format)
	}
	if t.hasCompTag {
		b.Compilation(t.compilation)
	}
	if len(t.cover) > 0 {
		b.CoverArt(t.cover)
	}
}

type ffprobeExtraction struct {
	container   string
	duration    time.Duration
	bitrateKbps int
	codec       string
	sampleRate  int
	bitDepth    int
	lossless    bool
	artist      string
	album       string
	title       string
	albumArtist string
	date        string
}

func extractWithFFprobe(path string) (*ffprobeExtraction, error) {
	info, err := runFFprobe(path)
	if err != nil {
		return nil, err
	}

	out := &ffprobeExtraction{}

	if info.Format != nil {
		out.container = info.Format.FormatName
		if info.Format.Duration != "" {
			var durationSec float64
			fmt.Sscanf(info.Format.Duration, "%f", &durationSec)
			out.duration = time.Duration(durationSec * float64(time.Second))
		}
		if info.Format.BitRate != "" {
			var bps int
			fmt.Sscanf(info.Format.BitRate, "%d", &bps)
			out.bitrateKbps = bps / 1000
		}
		if tags := info.Format.Tags; tags != nil {
			out.artist = getTag(tags, "artist", "ARTIST")
			out.album = getTag(tags, "album", "ALBUM")
			out.title = getTag(tags, "title", "TITLE")
			out.albumArtist = getTag(tags, "album_artist", "ALBUM_ARTIST", "albumartist")
			out.date = getTag(tags, "date", "DATE", "year", "YEAR")
		}
	}

	if len(info.Streams) > 0 {
		s := info.Streams[0]
		out.codec = s.CodecName
		out.sampleRate = s.SampleRate
		out.lossless = isLosslessCodec(s.CodecName)
		if s.BitsPerSample.Value > 0 {
			out.bitDepth = s.BitsPerSample.Value
		} else if s.BitsPerRawSample.Value > 0 {
			out.bitDepth = s.BitsPerRawSample.Value
		}
	}

	return out, nil
}

func applyFFprobe(b *model.MetadataBuilder, f *ffprobeExtraction) {
	if f.duration > 0 {
		b.Duration(f.duration)
	}
	if isValidBitrate(f.bitrateKbps) {
		b.BitrateKbps(f.bitrateKbps)
	}
	if f.codec != "" {
		b.Codec(f.codec)
	}
	if f.sampleRate > 0 {
		b.SampleRate(f.sampleRate)
	}
	if f.bitDepth > 0 {
		b.BitDepth(f.bitDepth)
	}
	b.Lossless(f.lossless)
	if f.artist != "" {
		b.Artist(f.artist)
	}
	if f.album != "" {
		b.Album(f.album)
	}
	if f.title != "" {
		b.Title(f.title)
	}
	if f.albumArtist != "" {
		b.AlbumArtist(f.albumArtist)
	}
	if f.date != "" {
		b.ReleaseDate(f.date)
	}
}
