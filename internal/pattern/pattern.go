// Package pattern implements the template language from spec §4.3: a
// string over path-separator `/`, with `{name}` and `{name?default}`
// substitutions bound against a per-file PatternContext. There is no direct
// teacher analogue for a reusable grammar — the teacher hard-codes one
// destination-path shape in its planner — so this generalizes that
// planner's `album-artist? artist? "Unknown Artist"` fallback ladder into a
// proper token grammar, in the same plain-function, no-reflection style.
package pattern

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/sanitize"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// knownVariables is the bound variable set from spec §4.3.
var knownVariables = map[string]bool{
	"artist":        true,
	"album_artist":  true,
	"album":         true,
	"title":         true,
	"genre":         true,
	"year":          true,
	"year4":         true,
	"track":         true,
	"disc":          true,
	"format":        true,
	"ext":           true,
	"composer":      true,
	"filename_stem": true,
}

// Preset templates, spec §4.3.
const (
	Standard    = "{artist}/{album}/{track} - {title}.{ext}"
	WithYear    = "{artist}/[{year4}] {album}/{track} - {title}.{ext}"
	Classical   = "Classical/{composer?artist}/{year4} - {album}/{track} - {title}.{ext}"
	GenreBased  = "{genre}/{artist}/{album}/{track} - {title}.{ext}"
	Flat        = "{artist} - {album} - {track} - {title}.{ext}"
	Compilation = "{album_artist?artist}/[{year4}] {album}/{track} - {artist} - {title}.{ext}"
)

// Parse validates and tokenizes raw into a Template. It rejects unknown
// variable names, unbalanced braces, and empty templates; errors are
// returned, never panicked.
func Parse(raw string) (model.Template, error) {
	if raw == "" {
		return model.Template{}, fmt.Errorf("%w: empty template", xerr.Parse)
	}

	rawSegments := strings.Split(raw, "/")
	segments := make([]model.Segment, 0, len(rawSegments))

	for _, rs := range rawSegments {
		tokens, err := parseSegment(rs)
		if err != nil {
			return model.Template{}, err
		}
		segments = append(segments, model.Segment{Tokens: tokens})
	}

	if len(segments) == 0 {
		return model.Template{}, fmt.Errorf("%w: empty template", xerr.Parse)
	}

	return model.Template{Raw: raw, Segments: segments}, nil
}

func parseSegment(s string) ([]model.Token, error) {
	var tokens []model.Token
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, model.Token{Kind: model.TokenLiteral, Literal: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '{':
			close := strings.IndexByte(s[i:], '}')
			if close < 0 {
				return nil, fmt.Errorf("%w: unbalanced brace in template segment %q", xerr.Parse, s)
			}
			inner := s[i+1 : i+close]
			if strings.ContainsAny(inner, "{}") {
				return nil, fmt.Errorf("%w: unbalanced brace in template segment %q", xerr.Parse, s)
			}
			flushLiteral()
			tok, err := parseToken(inner)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += close + 1
		case '}':
			return nil, fmt.Errorf("%w: unbalanced brace in template segment %q", xerr.Parse, s)
		default:
			literal.WriteByte(c)
			i++
		}
	}
	flushLiteral()

	return tokens, nil
}

func parseToken(inner string) (model.Token, error) {
	name, def, hasDefault := strings.Cut(inner, "?")
	name = strings.TrimSpace(name)
	if !knownVariables[name] {
		return model.Token{}, fmt.Errorf("%w: unknown template variable %q", xerr.Parse, name)
	}
	if hasDefault {
		return model.Token{Kind: model.TokenConditional, Name: name, Default: def}, nil
	}
	return model.Token{Kind: model.TokenVariable, Name: name}, nil
}

// Evaluate binds ctx against t and returns the ordered, sanitized path
// segment list. The last segment carries the filename and extension; the
// emitted path never contains ".." and always has at least one segment.
func Evaluate(t model.Template, ctx model.PatternContext) ([]string, error) {
	if len(t.Segments) == 0 {
		return nil, fmt.Errorf("%w: template has no segments", xerr.Parse)
	}

	vars := bindVariables(ctx)

	out := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		var b strings.Builder
		for _, tok := range seg.Tokens {
			switch tok.Kind {
			case model.TokenLiteral:
				b.WriteString(tok.Literal)
			case model.TokenVariable:
				b.WriteString(vars[tok.Name])
			case model.TokenConditional:
				v := vars[tok.Name]
				if v == "" {
					v = resolveDefault(tok.Default, vars)
				}
				b.WriteString(v)
			}
		}
		raw := b.String()
		if raw == ".." || raw == "." {
			raw = ""
		}
		out = append(out, sanitize.Segment(raw, ctx.MaxSegmentLength, ctx.UnknownPlaceholder))
	}

	return out, nil
}

// resolveDefault lets a conditional's default itself be another bound
// variable name (as in {composer?artist}) or, failing that, a literal
// fallback string.
func resolveDefault(def string, vars map[string]string) string {
	if knownVariables[def] {
		if v, ok := vars[def]; ok && v != "" {
			return v
		}
		return ""
	}
	return def
}

func bindVariables(ctx model.PatternContext) map[string]string {
	m := ctx.Metadata
	vars := make(map[string]string, len(knownVariables))

	vars["artist"] = m.Artist.OrElse("")
	vars["album_artist"] = m.AlbumArtist.OrElse("")
	vars["album"] = m.Album.OrElse("")
	vars["title"] = m.Title.OrElse("")
	vars["genre"] = m.Genre.OrElse("")
	vars["composer"] = m.Composer.OrElse("")
	vars["format"] = m.Format.OrElse("")

	if y, ok := m.Year.Get(); ok {
		vars["year"] = fmt.Sprintf("%d", y)
		vars["year4"] = fmt.Sprintf("%04d", y)
	} else {
		vars["year"] = ""
		vars["year4"] = ""
	}

	if tr, ok := m.Track.Get(); ok {
		vars["track"] = fmt.Sprintf("%02d", tr)
	} else {
		vars["track"] = "00"
	}

	if d, ok := m.Disc.Get(); ok {
		vars["disc"] = fmt.Sprintf("%d", d)
	} else {
		vars["disc"] = ""
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(ctx.SourcePath)), ".")
	vars["ext"] = ext

	base := filepath.Base(ctx.SourcePath)
	vars["filename_stem"] = strings.TrimSuffix(base, filepath.Ext(base))

	return vars
}
