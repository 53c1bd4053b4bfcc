// Package enrich defines the boundary the core calls into for metadata
// enrichment (spec.md §6: "the enricher consumes {path, current_metadata}
// and returns a (possibly enriched) metadata record... The core does not
// assume any network protocol"). This package owns the adapter that talks
// to MusicBrainz and an optional on-disk cache in front of it; the core
// engines (scan/dedup/validate/relocate) never import it directly — a
// caller wires an Enricher in by value where it wants enrichment.
package enrich

import (
	"context"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// Enricher is the external boundary from spec.md §6. Implementations may
// call out over the network; the core treats every Enricher as opaque.
type Enricher interface {
	// Enrich takes the file's current metadata (possibly empty) and returns
	// a metadata record with any fields it was able to fill in. It must
	// never remove a field the caller already had — only add absent ones —
	// so repeated enrichment is idempotent.
	Enrich(ctx context.Context, path string, current model.Metadata) (model.Metadata, error)
}

// Chain runs enrichers in order, feeding each one's output metadata as the
// next one's input. A failure from one stage is returned immediately, along
// with the metadata accumulated by the stages before it; later stages do not
// run. Callers that want best-effort chaining should wrap each stage so it
// swallows its own error.
func Chain(enrichers ...Enricher) Enricher {
	return chain(enrichers)
}

type chain []Enricher

func (c chain) Enrich(ctx context.Context, path string, current model.Metadata) (model.Metadata, error) {
	m := current
	for _, e := range c {
		next, err := e.Enrich(ctx, path, m)
		if err != nil {
			return m, err
		}
		m = next
	}
	return m, nil
}

// mergeAbsent fills every field absent in base with the corresponding field
// from fill, leaving every field base already has untouched. This is the
// "add absent fields, never override" contract every Enricher in this
// package follows.
func mergeAbsent(base, fill model.Metadata) model.Metadata {
	b := model.NewMetadataBuilder()
	seed := base

	setStr := func(cur, alt model.Option[string]) model.Option[string] {
		if v, ok := cur.Get(); ok {
			return model.Some(v)
		}
		return alt
	}

	title := setStr(seed.Title, fill.Title)
	if v, ok := title.Get(); ok {
		b.Title(v)
	}
	artist := setStr(seed.Artist, fill.Artist)
	if v, ok := artist.Get(); ok {
		b.Artist(v)
	}
	album := setStr(seed.Album, fill.Album)
	if v, ok := album.Get(); ok {
		b.Album(v)
	}
	albumArtist := setStr(seed.AlbumArtist, fill.AlbumArtist)
	if v, ok := albumArtist.Get(); ok {
		b.AlbumArtist(v)
	}
	composer := setStr(seed.Composer, fill.Composer)
	if v, ok := composer.Get(); ok {
		b.Composer(v)
	}
	genre := setStr(seed.Genre, fill.Genre)
	if v, ok := genre.Get(); ok {
		b.Genre(v)
	}
	releaseDate := setStr(seed.ReleaseDate, fill.ReleaseDate)
	if v, ok := releaseDate.Get(); ok {
		b.ReleaseDate(v)
	}
	externalID := setStr(seed.ExternalID, fill.ExternalID)
	if v, ok := externalID.Get(); ok {
		b.ExternalID(v)
	}
	format := setStr(seed.Format, fill.Format)
	if v, ok := format.Get(); ok {
		b.Format(v)
	}
	codec := setStr(seed.Codec, fill.Codec)
	if v, ok := codec.Get(); ok {
		b.Codec(v)
	}

	if v, ok := seed.Year.Get(); ok {
		b.Year(v)
	} else if v, ok := fill.Year.Get(); ok {
		b.Year(v)
	}
	if v, ok := seed.Track.Get(); ok {
		b.Track(v)
	} else if v, ok := fill.Track.Get(); ok {
		b.Track(v)
	}
	if v, ok := seed.TrackTotal.Get(); ok {
		b.TrackTotal(v)
	} else if v, ok := fill.TrackTotal.Get(); ok {
		b.TrackTotal(v)
	}
	if v, ok := seed.Disc.Get(); ok {
		b.Disc(v)
	} else if v, ok := fill.Disc.Get(); ok {
		b.Disc(v)
	}
	if v, ok := seed.DiscTotal.Get(); ok {
		b.DiscTotal(v)
	} else if v, ok := fill.DiscTotal.Get(); ok {
		b.DiscTotal(v)
	}
	if v, ok := seed.Duration.Get(); ok {
		b.Duration(v)
	} else if v, ok := fill.Duration.Get(); ok {
		b.Duration(v)
	}
	if v, ok := seed.BitrateKbps.Get(); ok {
		b.BitrateKbps(v)
	} else if v, ok := fill.BitrateKbps.Get(); ok {
		b.BitrateKbps(v)
	}
	if v, ok := seed.SampleRate.Get(); ok {
		b.SampleRate(v)
	} else if v, ok := fill.SampleRate.Get(); ok {
		b.SampleRate(v)
	}
	if v, ok := seed.BitDepth.Get(); ok {
		b.BitDepth(v)
	} else if v, ok := fill.BitDepth.Get(); ok {
		b.BitDepth(v)
	}
	if v, ok := seed.Lossless.Get(); ok {
		b.Lossless(v)
	} else if v, ok := fill.Lossless.Get(); ok {
		b.Lossless(v)
	}
	if v, ok := seed.Compilation.Get(); ok {
		b.Compilation(v)
	} else if v, ok := fill.Compilation.Get(); ok {
		b.Compilation(v)
	}
	if v, ok := seed.CoverArt.Get(); ok {
		b.CoverArt(v)
	} else if v, ok := fill.CoverArt.Get(); ok {
		b.CoverArt(v)
	}

	return b.Build()
}
