package enrich

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/xlog"

	_ "modernc.org/sqlite"
)

// cachedFields is the JSON-serialized shape stored per cache row: just the
// fields an Enricher is allowed to add (see mergeAbsent), not a whole
// Metadata record.
type cachedFields struct {
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
}

// CachingEnricher wraps another Enricher with a private SQLite-backed
// lookup cache keyed on the normalized artist+title signature, so a
// collection re-enriched on a later run doesn't re-issue the same network
// requests. It owns its own schema — this core carries no shared catalog
// (spec.md Non-goals: "no network-backed catalog" — the cache is a local
// memo of a boundary collaborator's answers, not a catalog of the library
// itself).
type CachingEnricher struct {
	db   *sql.DB
	next Enricher
}

// NewCachingEnricher opens (creating if needed) a private SQLite database
// at dbPath and wraps next with it.
func NewCachingEnricher(dbPath string, next Enricher) (*CachingEnricher, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening enrichment cache %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating enrichment cache schema: %w", err)
	}
	return &CachingEnricher{db: db, next: next}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS enrichment_cache (
	signature  TEXT PRIMARY KEY,
	fields     TEXT NOT NULL,
	cached_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
	hit_count  INTEGER DEFAULT 0
);
`

// Close closes the underlying database handle.
func (c *CachingEnricher) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func signatureOf(current model.Metadata) (string, bool) {
	artist, ok1 := current.Artist.Get()
	title, ok2 := current.Title.Get()
	if !ok1 || !ok2 {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(title)), true
}

// Enrich implements Enricher: a cache hit returns the memoized fields
// merged in without calling next; a miss calls next, stores the result
// (best-effort — a caching failure must not fail the enrichment), and
// returns it.
func (c *CachingEnricher) Enrich(ctx context.Context, path string, current model.Metadata) (model.Metadata, error) {
	sig, ok := signatureOf(current)
	if !ok {
		return c.next.Enrich(ctx, path, current)
	}

	if fields, found := c.lookup(sig); found {
		xlog.Debug("enrichment cache hit for %q", sig)
		c.bumpHitCount(sig)
		return mergeAbsent(current, fieldsToMetadata(fields)), nil
	}

	enriched, err := c.next.Enrich(ctx, path, current)
	if err != nil {
		return current, err
	}

	if err := c.store(sig, metadataToFields(enriched)); err != nil {
		xlog.Warn("failed to cache enrichment result for %q: %v", sig, err)
	}

	return enriched, nil
}

func (c *CachingEnricher) lookup(sig string) (cachedFields, bool) {
	var raw string
	err := c.db.QueryRow(`SELECT fields FROM enrichment_cache WHERE signature = ?`, sig).Scan(&raw)
	if err != nil {
		return cachedFields{}, false
	}
	var fields cachedFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return cachedFields{}, false
	}
	return fields, true
}

func (c *CachingEnricher) store(sig string, fields cachedFields) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`
		INSERT INTO enrichment_cache (signature, fields, cached_at, hit_count)
		VALUES (?, ?, ?, COALESCE((SELECT hit_count FROM enrichment_cache WHERE signature = ?), 0))
		ON CONFLICT(signature) DO UPDATE SET fields = excluded.fields, cached_at = excluded.cached_at
	`, sig, string(raw), time.Now(), sig)
	return err
}

func (c *CachingEnricher) bumpHitCount(sig string) {
	_, err := c.db.Exec(`UPDATE enrichment_cache SET hit_count = hit_count + 1 WHERE signature = ?`, sig)
	if err != nil {
		xlog.Debug("failed to bump enrichment cache hit count: %v", err)
	}
}

func metadataToFields(m model.Metadata) cachedFields {
	var f cachedFields
	f.Title = m.Title.OrElse("")
	f.Artist = m.Artist.OrElse("")
	f.Album = m.Album.OrElse("")
	f.ReleaseDate = m.ReleaseDate.OrElse("")
	f.ExternalID = m.ExternalID.OrElse("")
	return f
}

func fieldsToMetadata(f cachedFields) model.Metadata {
	b := model.NewMetadataBuilder()
	if f.Title != "" {
		b.Title(f.Title)
	}
	if f.Artist != "" {
		b.Artist(f.Artist)
	}
	if f.Album != "" {
		b.Album(f.Album)
	}
	if f.ReleaseDate != "" {
		b.ReleaseDate(f.ReleaseDate)
	}
	if f.ExternalID != "" {
		b.ExternalID(f.ExternalID)
	}
	return b.Build()
}
