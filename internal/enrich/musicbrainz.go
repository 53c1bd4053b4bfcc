package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

const (
	// musicBrainzBaseURL is the MusicBrainz API base URL.
	musicBrainzBaseURL = "https://musicbrainz.org/ws/2"

	// musicBrainzUserAgent identifies this application to MusicBrainz, which
	// requires a descriptive user agent on every request.
	musicBrainzUserAgent = "CrateOrganizer/1.0 (https://github.com/arvidsson/crateorganizer)"

	// musicBrainzRateLimit is the maximum request rate MusicBrainz allows
	// for unauthenticated clients.
	musicBrainzRateLimit = 1 * time.Second
)

// recordingSearchResponse is the subset of MusicBrainz's recording search
// response this adapter consumes.
type recordingSearchResponse struct {
	Recordings []recording `json:"recordings"`
	Count      int         `json:"count"`
}

type recording struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Score    int       `json:"score"`
	Releases []release `json:"releases"`
}

type release struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Date         string       `json:"date"`
	ArtistCredit []artistCred `json:"artist-credit"`
}

type artistCred struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

// MusicBrainzEnricher looks up a recording by artist and title and fills in
// the release date and the MusicBrainz recording id when the current
// metadata is missing them. It is rate-limited to musicBrainzRateLimit, the
// same one-request-per-second ticker shape as the teacher's client.
type MusicBrainzEnricher struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *time.Ticker
}

// NewMusicBrainzEnricher constructs a rate-limited client. Callers must
// call Close when done to stop the internal ticker.
func NewMusicBrainzEnricher() *MusicBrainzEnricher {
	return &MusicBrainzEnricher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  musicBrainzUserAgent,
		baseURL:    musicBrainzBaseURL,
		limiter:    time.NewTicker(musicBrainzRateLimit),
	}
}

// Close stops the rate limiter ticker. Safe to call on a nil receiver.
func (c *MusicBrainzEnricher) Close() {
	if c == nil || c.limiter == nil {
		return
	}
	c.limiter.Stop()
}

// Enrich implements Enricher. It no-ops (returns current unchanged) when
// artist or title is absent, since a recording search needs both.
func (c *MusicBrainzEnricher) Enrich(ctx context.Context, path string, current model.Metadata) (model.Metadata, error) {
	artist, hasArtist := current.Artist.Get()
	title, hasTitle := current.Title.Get()
	if !hasArtist || !hasTitle {
		return current, nil
	}

	rec, err := c.searchRecording(ctx, artist, title)
	if err != nil {
		return current, err
	}
	if rec == nil {
		return current, nil
	}

	fill := model.NewMetadataBuilder().Build()
	b := model.NewMetadataBuilder().ExternalID(rec.ID)
	if len(rec.Releases) > 0 && rec.Releases[0].Date != "" {
		b.ReleaseDate(rec.Releases[0].Date)
	}
	fill = b.Build()

	return mergeAbsent(current, fill), nil
}

func (c *MusicBrainzEnricher) searchRecording(ctx context.Context, artist, title string) (*recording, error) {
	c.waitForRateLimit(ctx)

	query := fmt.Sprintf(`recording:"%s" AND artist:"%s"`, title, artist)
	reqURL := fmt.Sprintf("%s/recording/?query=%s&fmt=json&limit=3", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("musicbrainz rate limited (503)")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("musicbrainz returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed recordingSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding musicbrainz response: %w", err)
	}
	if len(parsed.Recordings) == 0 {
		xlog.Debug("musicbrainz: no recording match for %q / %q", artist, title)
		return nil, nil
	}

	best := parsed.Recordings[0]
	if best.Score < 80 {
		xlog.Debug("musicbrainz: low-confidence match (%d) for %q / %q, skipping", best.Score, artist, title)
		return nil, nil
	}
	return &best, nil
}

func (c *MusicBrainzEnricher) waitForRateLimit(ctx context.Context) {
	select {
	case <-c.limiter.C:
	case <-ctx.Done():
	}
}
