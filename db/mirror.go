package db

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/VYD3N/tezos-music-player/model"
)

// UpsertMirrorRows copies catalog rows into the mirror table, replacing
// existing rows with the same id.
func UpsertMirrorRows(rows []*model.RawTrack) error {
	if GormDB == nil {
		return fmt.Errorf("GORM connection not initialized")
	}
	if len(rows) == 0 {
		return nil
	}

	records := make([]audioNFT, 0, len(rows))
	for _, row := range rows {
		rec := audioNFT{
			ID:              row.ID,
			Title:           row.Title,
			Artist:          row.Artist,
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
			TokenID:         row.TokenID,
			ContractAddress: row.ContractAddress,
			Tempo:           row.Tempo,
			Energy:          row.Energy,
			Danceability:    row.Danceability,
		}
		if !row.UploadedAt.IsZero() {
			uploaded := row.UploadedAt
			rec.UploadedAt = &uploaded
		}
		records = append(records, rec)
	}

	// Batched so a large catalog does not blow the packet size limit.
	const batch = 200
	for start := 0; start < len(records); start += batch {
		end := start + batch
		if end > len(records) {
			end = len(records)
		}
		if err := GormDB.Clauses(clause.OnConflict{UpdateAll: true}).
			Create(records[start:end]).Error; err != nil {
			return fmt.Errorf("failed to upsert mirror rows: %w", err)
		}
	}
	return nil
}

// MirrorRowCount returns the number of rows in the mirror table.
func MirrorRowCount() (int64, error) {
	if GormDB == nil {
		return 0, fmt.Errorf("GORM connection not initialized")
	}
	var count int64
	if err := GormDB.Model(&audioNFT{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count mirror rows: %w", err)
	}
	return count, nil
}
