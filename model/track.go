package model

import "time"

// Track represents one playable catalog entry. Tracks are built by the catalog
// client from raw backend rows and are not mutated afterwards; AudioURL and
// ThumbnailURL are already gateway-normalized when a Track reaches API or
// player code.
type Track struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	Genre           string    `json:"genre,omitempty"`
	Mood            string    `json:"mood,omitempty"`
	Platform        string    `json:"platform,omitempty"`
	Duration        float64   `json:"duration"` // seconds, non-negative
	Description     string    `json:"description,omitempty"`
	AudioURL        string    `json:"audioUrl"` // http(s) or empty; empty means not playable
	ThumbnailURL    string    `json:"thumbnailUrl"`
	DisplayURL      string    `json:"displayUrl,omitempty"`
	TokenID         string    `json:"tokenId,omitempty"`
	ContractAddress string    `json:"contractAddress,omitempty"`
	MimeType        string    `json:"mimeType,omitempty"`
	Tempo           float64   `json:"tempo,omitempty"`
	Energy          float64   `json:"energy,omitempty"`
	Danceability    float64   `json:"danceability,omitempty"`
	UploadedAt      time.Time `json:"uploadedAt,omitempty"`
}

// Playable reports whether the track has a usable audio source. An empty
// AudioURL after normalization is terminal: there is nothing to retry.
func (t *Track) Playable() bool {
	return t.AudioURL != ""
}
