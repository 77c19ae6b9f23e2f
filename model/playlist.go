package model

import "time"

// Reserved names for the implicit system playlists.
const (
	FavoritesPlaylist      = "Favorites"
	RecentlyPlayedPlaylist = "Recently Played"
)

// RecentlyPlayedCap bounds the Recently Played playlist, most-recent-first.
const RecentlyPlayedCap = 10

// Playlist is a named, ordered collection of track IDs. Duplicate track IDs
// are suppressed on insert.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrackIDs  []string  `json:"trackIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contains reports whether the playlist already holds the given track.
func (p *Playlist) Contains(trackID string) bool {
	for _, id := range p.TrackIDs {
		if id == trackID {
			return true
		}
	}
	return false
}

// PlaylistStore is the complete persisted playlist state for one device. It
// round-trips losslessly through JSON; that round-trip is the persistence
// contract regardless of backend.
type PlaylistStore struct {
	Playlists map[string]*Playlist `json:"playlists"`
	ActiveID  string               `json:"activeId,omitempty"`
}

// NewPlaylistStore returns an empty store.
func NewPlaylistStore() *PlaylistStore {
	return &PlaylistStore{Playlists: make(map[string]*Playlist)}
}

// ByName returns the playlist with the given name, or nil.
func (s *PlaylistStore) ByName(name string) *Playlist {
	for _, p := range s.Playlists {
		if p.Name == name {
			return p
		}
	}
	return nil
}
