package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/VYD3N/tezos-music-player/model"
)

// TrackRepository defines the catalog query operations. Implementations return
// raw rows and real errors; fail-soft conversion to empty results happens in
// the catalog client, not here.
//
// Search performs a case-insensitive substring match OR-combined across the
// requested fields and must not be called with an empty query (callers branch
// to FetchAll instead). Filter applies criteria as an AND-conjunction; empty
// criteria return the full catalog. GetByID returns (nil, nil) when no row
// matches.
type TrackRepository interface {
	FetchAll(ctx context.Context) ([]*model.RawTrack, error)
	Search(ctx context.Context, query string, fields []string) ([]*model.RawTrack, error)
	Filter(ctx context.Context, criteria model.Criteria) ([]*model.RawTrack, error)
	GetByID(ctx context.Context, id string) (*model.RawTrack, error)
}

// Canonical search field names mapped to mirror table columns. Unknown fields
// are dropped; if nothing survives the defaults apply.
var mysqlSearchColumns = map[string]string{
	model.FieldTitle:    "title",
	model.FieldArtist:   "artist",
	model.FieldGenre:    "genre",
	model.FieldMood:     "mood",
	model.FieldPlatform: "platform",
}

const trackColumns = `id, title, artist, genre, mood, platform, duration, description,
	thumbnail_uri, display_uri, artifact_uri, playback_url, mime_type,
	token_id, contract_address, tempo, energy, danceability, uploaded_at`

// mysqlTrackRepository implements TrackRepository against the audio_nfts
// mirror table.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a TrackRepository backed by the mirror table.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{DB: db}
}

// FetchAll retrieves every catalog row, newest upload first.
func (r *mysqlTrackRepository) FetchAll(ctx context.Context) ([]*model.RawTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM audio_nfts ORDER BY uploaded_at DESC`, trackColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all tracks: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// Search matches the query as a case-insensitive substring of any requested
// field.
func (r *mysqlTrackRepository) Search(ctx context.Context, query string, fields []string) ([]*model.RawTrack, error) {
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := mysqlSearchColumns[f]; ok {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		for _, f := range model.DefaultSearchFields() {
			columns = append(columns, mysqlSearchColumns[f])
		}
	}

	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	pattern := "%" + strings.ToLower(query) + "%"
	for _, col := range columns {
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, pattern)
	}

	stmt := fmt.Sprintf(`SELECT %s FROM audio_nfts WHERE %s ORDER BY uploaded_at DESC`,
		trackColumns, strings.Join(conditions, " OR "))
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks for %q: %w", query, err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// Filter applies the populated criteria as an AND-conjunction. Empty criteria
// return the full catalog.
func (r *mysqlTrackRepository) Filter(ctx context.Context, criteria model.Criteria) ([]*model.RawTrack, error) {
	if criteria.Empty() {
		return r.FetchAll(ctx)
	}

	var conditions []string
	var args []interface{}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", column, placeholders))
		for _, v := range values {
			args = append(args, v)
		}
	}
	addRange := func(column string, rng model.Range) {
		if rng.Min != nil {
			conditions = append(conditions, fmt.Sprintf("%s >= ?", column))
			args = append(args, *rng.Min)
		}
		if rng.Max != nil {
			conditions = append(conditions, fmt.Sprintf("%s <= ?", column))
			args = append(args, *rng.Max)
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

	stmt := fmt.Sprintf(`SELECT %s FROM audio_nfts WHERE %s ORDER BY uploaded_at DESC`,
		trackColumns, strings.Join(conditions, " AND "))
	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter tracks: %w", err)
	}
	defer rows.Close()

	return scanTracks(rows)
}

// GetByID retrieves a single track by its ID.
func (r *mysqlTrackRepository) GetByID(ctx context.Context, id string) (*model.RawTrack, error) {
	query := fmt.Sprintf(`SELECT %s FROM audio_nfts WHERE id = ?`, trackColumns)
	row := r.DB.QueryRowContext(ctx, query, id)

	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %s: %w", id, err)
	}
	return track, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (*model.RawTrack, error) {
	track := &model.RawTrack{}
	var genre, mood, platform, description sql.NullString
	var thumbnail, display, artifact, playback sql.NullString
	var mimeType, tokenID, contract sql.NullString
	var duration, tempo, energy, danceability sql.NullFloat64
	var uploadedAt sql.NullTime

	err := row.Scan(&track.ID, &track.Title, &track.Artist, &genre, &mood, &platform,
		&duration, &description, &thumbnail, &display, &artifact, &playback,
		&mimeType, &tokenID, &contract, &tempo, &energy, &danceability, &uploadedAt)
	if err != nil {
		return nil, err
	}

	track.Genre = genre.String
	track.Mood = mood.String
	track.Platform = platform.String
	track.Duration = duration.Float64
	track.Description = description.String
	track.ThumbnailURI = thumbnail.String
	track.DisplayURI = display.String
	track.ArtifactURI = artifact.String
	track.PlaybackURL = playback.String
	track.MimeType = mimeType.String
	track.TokenID = tokenID.String
	track.ContractAddress = contract.String
	track.Tempo = tempo.Float64
	track.Energy = energy.Float64
	track.Danceability = danceability.Float64
	if uploadedAt.Valid {
		track.UploadedAt = uploadedAt.Time
	}
	return track, nil
}

func scanTracks(rows *sql.Rows) ([]*model.RawTrack, error) {
	tracks := make([]*model.RawTrack, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return tracks, nil
}
