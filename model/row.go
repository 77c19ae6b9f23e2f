package model

import "time"

// RawTrack is one catalog row as the backend returns it: media references may
// still be ipfs:// URIs or bare CIDs. Only the catalog client turns raw rows
// into Tracks.
type RawTrack struct {
	ID              string
	Title           string
	Artist          string
	Genre           string
	Mood            string
	Platform        string
	Duration        float64
	Description     string
	ThumbnailURI    string
	DisplayURI      string
	ArtifactURI     string
	PlaybackURL     string
	MimeType        string
	TokenID         string
	ContractAddress string
	Tempo           float64
	Energy          float64
	Danceability    float64
	UploadedAt      time.Time
}
