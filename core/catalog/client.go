// Package catalog is the track repository client: it issues queries through a
// repository.TrackRepository, gateway-normalizes every media reference, and
// never lets a backend error reach presentation code.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/VYD3N/tezos-music-player/core/ipfs"
	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
	"github.com/VYD3N/tezos-music-player/repository"
)

// Client wraps a TrackRepository with normalization and the fail-soft policy:
// a broken backend degrades to "no tracks" rather than an error. It also keeps
// the last known full catalog for client-side recomputation by the composer.
type Client struct {
	repo        repository.TrackRepository
	gateway     string
	placeholder string

	mu       sync.RWMutex
	snapshot []*model.Track
}

// NewClient creates a catalog client over the given repository.
func NewClient(repo repository.TrackRepository, gateway, placeholder string) *Client {
	if gateway == "" {
		gateway = ipfs.DefaultGateway
	}
	if placeholder == "" {
		placeholder = ipfs.DefaultPlaceholder
	}
	return &Client{repo: repo, gateway: gateway, placeholder: placeholder}
}

// buildTrack constructs the immutable Track from a raw catalog row. The audio
// source prefers the ready-made playback URL and falls back to the normalized
// artifact reference; anything that still isn't http(s) afterwards is not
// playable and becomes empty.
func (c *Client) buildTrack(raw *model.RawTrack) *model.Track {
	audio := raw.PlaybackURL
	if audio == "" {
		audio = ipfs.Normalize(raw.ArtifactURI, c.gateway)
	}
	if !strings.HasPrefix(audio, "http://") && !strings.HasPrefix(audio, "https://") {
		audio = ""
	}

	return &model.Track{
		ID:              raw.ID,
		Title:           raw.Title,
		Artist:          raw.Artist,
		Genre:           raw.Genre,
		Mood:            raw.Mood,
		Platform:        raw.Platform,
		Duration:        raw.Duration,
		Description:     raw.Description,
		AudioURL:        audio,
		ThumbnailURL:    ipfs.NormalizeThumbnail(raw.ThumbnailURI, c.gateway, c.placeholder),
		DisplayURL:      ipfs.NormalizeThumbnail(raw.DisplayURI, c.gateway, c.placeholder),
		TokenID:         raw.TokenID,
		ContractAddress: raw.ContractAddress,
		MimeType:        raw.MimeType,
		Tempo:           raw.Tempo,
		Energy:          raw.Energy,
		Danceability:    raw.Danceability,
		UploadedAt:      raw.UploadedAt,
	}
}

func (c *Client) buildTracks(raws []*model.RawTrack) []*model.Track {
	tracks := make([]*model.Track, 0, len(raws))
	for _, raw := range raws {
		tracks = append(tracks, c.buildTrack(raw))
	}
	return tracks
}

// FetchAll returns the full normalized catalog, or an empty slice on any
// backend failure. A successful fetch refreshes the snapshot.
func (c *Client) FetchAll(ctx context.Context) []*model.Track {
	raws, err := c.repo.FetchAll(ctx)
	if err != nil {
		logger.Error("catalog fetch failed", logger.ErrorField(err))
		return []*model.Track{}
	}

	tracks := c.buildTracks(raws)
	c.mu.Lock()
	c.snapshot = tracks
	c.mu.Unlock()
	return tracks
}

// Search returns tracks matching the query in any of the requested fields.
// Callers must not pass an empty query; they branch to FetchAll instead.
func (c *Client) Search(ctx context.Context, query string, fields []string) []*model.Track {
	raws, err := c.repo.Search(ctx, query, fields)
	if err != nil {
		logger.Error("catalog search failed",
			logger.String("query", query), logger.ErrorField(err))
		return []*model.Track{}
	}
	return c.buildTracks(raws)
}

// Filter returns tracks satisfying every populated criterion.
func (c *Client) Filter(ctx context.Context, criteria model.Criteria) []*model.Track {
	raws, err := c.repo.Filter(ctx, criteria)
	if err != nil {
		logger.Error("catalog filter failed", logger.ErrorField(err))
		return []*model.Track{}
	}
	return c.buildTracks(raws)
}

// GetByID returns the normalized track, or nil when missing or on failure.
func (c *Client) GetByID(ctx context.Context, id string) *model.Track {
	raw, err := c.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error("catalog lookup failed",
			logger.String("id", id), logger.ErrorField(err))
		return nil
	}
	if raw == nil {
		return nil
	}
	return c.buildTrack(raw)
}

// Snapshot returns the last known full catalog. The slice is shared and must
// not be mutated; composition code always works on copies.
func (c *Client) Snapshot() []*model.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
