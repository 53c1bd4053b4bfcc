package dedup

import (
	"strings"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// QualityScore ranks an AudioFile's fidelity. Higher is better. The ladder
// mirrors the teacher's CalculateQualityScore: codec tier first (by far the
// largest weight), then bit depth and sample rate bonuses, a lossless
// verification bonus, tag completeness, and a small bonus for larger
// lossless files (less aggressive compression).
func QualityScore(f model.AudioFile) float64 {
	m := f.Metadata
	lossless := m.Lossless.OrElse(false)
	codec, _ := m.Codec.Get()
	bitrate := m.BitrateKbps.OrElse(0)

	score := codecScore(codec, lossless, bitrate)
	score += bitDepthScore(m.BitDepth.OrElse(0))
	score += sampleRateScore(m.SampleRate.OrElse(0))

	if lossless {
		score += 10.0
	}

	score += tagCompletenessScore(m)

	if lossless && f.SizeBytes > 0 {
		sizeMB := float64(f.SizeBytes) / (1024.0 * 1024.0)
		switch {
		case sizeMB > 50:
			score += 2.0
		case sizeMB > 20:
			score += 1.0
		}
	}

	return score
}

func codecScore(codec string, lossless bool, bitrateKbps int) float64 {
	codec = strings.ToLower(codec)

	if lossless {
		switch codec {
		case "flac", "alac":
			return 40.0
		case "ape":
			return 35.0
		case "wavpack", "wv":
			return 35.0
		case "tta":
			return 30.0
		default:
			if strings.HasPrefix(codec, "pcm_") {
				return 40.0
			}
			return 30.0
		}
	}

	switch codec {
	case "aac":
		switch {
		case bitrateKbps >= 256:
			return 25.0
		case bitrateKbps >= 192:
			return 22.0
		case bitrateKbps >= 128:
			return 18.0
		default:
			return 15.0
		}
	case "mp3":
		switch {
		case bitrateKbps >= 320:
			return 20.0
		case bitrateKbps >= 256:
			return 18.0
		case bitrateKbps >= 192:
			return 15.0
		case bitrateKbps >= 128:
			return 12.0
		default:
			return 8.0
		}
	case "opus":
		switch {
		case bitrateKbps >= 192:
			return 24.0
		case bitrateKbps >= 128:
			return 22.0
		case bitrateKbps >= 96:
			return 18.0
		default:
			return 15.0
		}
	case "vorbis":
		switch {
		case bitrateKbps >= 256:
			return 22.0
		case bitrateKbps >= 192:
			return 19.0
		case bitrateKbps >= 128:
			return 16.0
		default:
			return 12.0
		}
	default:
		if bitrateKbps >= 256 {
			return 15.0
		}
		return 10.0
	}
}

func bitDepthScore(bitDepth int) float64 {
	switch {
	case bitDepth >= 24:
		return 5.0
	case bitDepth >= 20:
		return 3.0
	case bitDepth >= 16:
		return 0.0
	default:
		return -2.0
	}
}

func sampleRateScore(sampleRate int) float64 {
	switch {
	case sampleRate >= 96000:
		return 5.0
	case sampleRate >= 48000:
		return 2.0
	case sampleRate >= 44100:
		return 0.0
	case sampleRate >= 32000:
		return -1.0
	default:
		return -3.0
	}
}

func tagCompletenessScore(m model.Metadata) float64 {
	score := 0.0
	if artist, ok := m.Artist.Get(); ok && artist != "" {
		score++
	}
	if album, ok := m.Album.Get(); ok && album != "" {
		score++
	}
	if title, ok := m.Title.Get(); ok && title != "" {
		score++
	}
	if track, ok := m.Track.Get(); ok && track > 0 {
		score++
	}
	if score >= 4.0 {
		score++
	}
	return score
}

// countNonAbsentFields counts how many of Metadata's fields carry a value,
// the tie-break signal spec.md §4.2 names directly ("the member whose
// metadata record carries more non-absent fields").
func countNonAbsentFields(m model.Metadata) int {
	n := 0
	for _, present := range []bool{
		m.Title.IsPresent(), m.Artist.IsPresent(), m.Album.IsPresent(),
		m.AlbumArtist.IsPresent(), m.Composer.IsPresent(), m.Genre.IsPresent(),
		m.Year.IsPresent(), m.Track.IsPresent(), m.TrackTotal.IsPresent(),
		m.Disc.IsPresent(), m.DiscTotal.IsPresent(), m.Duration.IsPresent(),
		m.BitrateKbps.IsPresent(), m.SampleRate.IsPresent(), m.BitDepth.IsPresent(),
		m.Format.IsPresent(), m.Codec.IsPresent(), m.Lossless.IsPresent(),
		m.ReleaseDate.IsPresent(), m.ExternalID.IsPresent(), m.CoverArt.IsPresent(),
		m.Compilation.IsPresent(),
	} {
		if present {
			n++
		}
	}
	return n
}

// SuggestKeeper picks the best file among a duplicate group's members:
// highest QualityScore first (the teacher's selectWinner ladder, a richer
// fidelity signal than spec.md ever asked for), then spec.md §4.2's own
// tail-break ladder once QualityScore ties — more non-absent metadata
// fields, then shorter absolute-path length, then case-insensitive path
// order. All deterministic, so the same group always resolves the same
// way.
func SuggestKeeper(members []model.AudioFile) model.AudioFile {
	winner := members[0]
	winnerScore := QualityScore(winner)

	for _, candidate := range members[1:] {
		candidateScore := QualityScore(candidate)

		switch {
		case candidateScore > winnerScore:
			winner, winnerScore = candidate, candidateScore
			continue
		case candidateScore < winnerScore:
			continue
		}

		candidateFields := countNonAbsentFields(candidate.Metadata)
		winnerFields := countNonAbsentFields(winner.Metadata)
		switch {
		case candidateFields > winnerFields:
			winner = candidate
			continue
		case candidateFields < winnerFields:
			continue
		}

		switch {
		case len(candidate.Path) < len(winner.Path):
			winner = candidate
			continue
		case len(candidate.Path) > len(winner.Path):
			continue
		}

		if strings.ToLower(candidate.Path) < strings.ToLower(winner.Path) {
			winner = candidate
		}
	}

	return winner
}
