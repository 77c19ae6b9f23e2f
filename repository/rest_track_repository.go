package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/VYD3N/tezos-music-player/model"
)

// Canonical search field names mapped to hosted catalog columns. The hosted
// table predates the canonical schema and still calls the title column "name".
var restSearchColumns = map[string]string{
	model.FieldTitle:    "name",
	model.FieldArtist:   "artist",
	model.FieldGenre:    "genre",
	model.FieldMood:     "mood",
	model.FieldPlatform: "platform",
}

// restTrackRepository implements TrackRepository against the hosted catalog's
// PostgREST API.
type restTrackRepository struct {
	baseURL string
	table   string
	anonKey string
	client  *http.Client
	limiter *rate.Limiter
}

// NewRESTTrackRepository creates a TrackRepository that queries the hosted
// catalog API. rps bounds the request rate; the hosted service throttles
// anonymous clients aggressively.
func NewRESTTrackRepository(baseURL, table, anonKey string, rps int) TrackRepository {
	if rps <= 0 {
		rps = 10
	}
	return &restTrackRepository{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		table:   table,
		anonKey: anonKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// flexString tolerates the hosted catalog's loose typing: id and token_id
// arrive as either JSON strings or numbers depending on the row's origin.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// restTrackRow mirrors one row of the hosted audio_nfts table.
type restTrackRow struct {
	ID              flexString `json:"id"`
	Name            string     `json:"name"`
	ArtistName      string     `json:"artist_name"`
	Artist          string     `json:"artist"`
	Genre           string     `json:"genre"`
	Mood            string     `json:"mood"`
	Platform        string     `json:"platform"`
	Duration        float64    `json:"duration"`
	Description     string     `json:"description"`
	ThumbnailURI    string     `json:"thumbnail_uri"`
	DisplayURI      string     `json:"display_uri"`
	ArtifactURI     string     `json:"artifact_uri"`
	PlaybackURL     string     `json:"playback_url"`
	MimeType        string     `json:"mime_type"`
	TokenID         flexString `json:"token_id"`
	ContractAddress string     `json:"contract_address"`
	Tempo           float64    `json:"tempo"`
	Energy          float64    `json:"energy"`
	Danceability    float64    `json:"danceability"`
	UploadedAt      *time.Time `json:"uploaded_at"`
}

func (row *restTrackRow) toRawTrack() *model.RawTrack {
	artist := row.ArtistName
	if artist == "" {
		artist = row.Artist
	}
	track := &model.RawTrack{
		ID:              string(row.ID),
		Title:           row.Name,
		Artist:          artist,
		Genre:           row.Genre,
		Mood:            row.Mood,
		Platform:        row.Platform,
		Duration:        row.Duration,
		Description:     row.Description,
		ThumbnailURI:    row.ThumbnailURI,
		DisplayURI:      row.DisplayURI,
		ArtifactURI:     row.ArtifactURI,
		PlaybackURL:     row.PlaybackURL,
		MimeType:        row.MimeType,
		TokenID:         string(row.TokenID),
		ContractAddress: row.ContractAddress,
		Tempo:           row.Tempo,
		Energy:          row.Energy,
		Danceability:    row.Danceability,
	}
	if row.UploadedAt != nil {
		track.UploadedAt = *row.UploadedAt
	}
	return track
}

// query issues one PostgREST request and decodes the row set.
func (r *restTrackRepository) query(ctx context.Context, params url.Values) ([]*model.RawTrack, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire rate limit slot: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", r.baseURL, r.table, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("apikey", r.anonKey)
	req.Header.Set("Authorization", "Bearer "+r.anonKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []restTrackRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	tracks := make([]*model.RawTrack, 0, len(rows))
	for i := range rows {
		tracks = append(tracks, rows[i].toRawTrack())
	}
	return tracks, nil
}

// FetchAll retrieves every catalog row.
func (r *restTrackRepository) FetchAll(ctx context.Context) ([]*model.RawTrack, error) {
	params := url.Values{}
	params.Set("select", "*")
	return r.query(ctx, params)
}

// Search matches the query as a case-insensitive substring of any requested
// field, OR-combined server-side via PostgREST's or= parameter.
func (r *restTrackRepository) Search(ctx context.Context, query string, fields []string) ([]*model.RawTrack, error) {
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := restSearchColumns[f]; ok {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		for _, f := range model.DefaultSearchFields() {
			columns = append(columns, restSearchColumns[f])
		}
	}

	// Commas and parentheses are structural inside or=() groups; LIKE
	// wildcards in the query must match literally.
	escaped := strings.NewReplacer(
		",", " ", "(", " ", ")", " ",
		"%", `\%`, "_", `\_`,
	).Replace(query)
	conditions := make([]string, 0, len(columns))
	for _, col := range columns {
		conditions = append(conditions, fmt.Sprintf("%s.ilike.*%s*", col, escaped))
	}

	params := url.Values{}
	params.Set("select", "*")
	params.Set("or", "("+strings.Join(conditions, ",")+")")
	return r.query(ctx, params)
}

// quoteFilterValue double-quotes values containing characters PostgREST
// treats as structural inside in.() lists.
func quoteFilterValue(v string) string {
	if !strings.ContainsAny(v, `,() "`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

// Filter applies the populated criteria as an AND-conjunction of PostgREST
// operators. Empty criteria return the full catalog.
func (r *restTrackRepository) Filter(ctx context.Context, criteria model.Criteria) ([]*model.RawTrack, error) {
	params := url.Values{}
	params.Set("select", "*")

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		quoted := make([]string, 0, len(values))
		for _, v := range values {
			quoted = append(quoted, quoteFilterValue(v))
		}
		params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	}
	addRange := func(column string, rng model.Range) {
		if rng.Min != nil {
			params.Add(column, fmt.Sprintf("gte.%g", *rng.Min))
		}
		if rng.Max != nil {
			params.Add(column, fmt.Sprintf("lte.%g", *rng.Max))
		}
	}

	addIn("artist", criteria.Artists)
	addIn("genre", criteria.Genres)
	addIn("mood", criteria.Moods)
	addIn("platform", criteria.Platforms)
	addRange("duration", criteria.Duration)
	addRange("tempo", criteria.Tempo)
	addRange("energy", criteria.Energy)
	addRange("danceability", criteria.Danceability)

	return r.query(ctx, params)
}

// GetByID retrieves a single track by its ID, (nil, nil) when absent.
func (r *restTrackRepository) GetByID(ctx context.Context, id string) (*model.RawTrack, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("id", "eq."+id)

	tracks, err := r.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil // Track not found
	}
	return tracks[0], nil
}
