// Package store persists user playlists through a typed repository contract.
// The serialized form is one JSON document holding the entire playlist state;
// the backend (file or Redis) is an implementation detail.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
)

// Reserved IDs for the implicit system playlists.
const (
	FavoritesID      = "favorites"
	RecentlyPlayedID = "recently-played"
)

// Repository is the persistence contract: load the whole store, save the
// whole store. Round-tripping must be lossless.
type Repository interface {
	Load(ctx context.Context) (*model.PlaylistStore, error)
	Save(ctx context.Context, s *model.PlaylistStore) error
}

// Manager owns the in-memory playlist state and is the only writer to the
// repository. Every mutating operation persists synchronously before
// returning.
type Manager struct {
	mu   sync.Mutex
	repo Repository
	data *model.PlaylistStore
}

// NewManager loads the persisted store once. A missing or corrupt persisted
// value yields an empty store, never a failure.
func NewManager(ctx context.Context, repo Repository) *Manager {
	data, err := repo.Load(ctx)
	if err != nil {
		logger.Warn("playlist store unreadable, starting empty", logger.ErrorField(err))
		data = nil
	}
	if data == nil {
		data = model.NewPlaylistStore()
	}
	if data.Playlists == nil {
		data.Playlists = make(map[string]*model.Playlist)
	}
	return &Manager{repo: repo, data: data}
}

// Reload replaces the in-memory state with the persisted one. Used when the
// backing file changes under us.
func (m *Manager) Reload(ctx context.Context) {
	data, err := m.repo.Load(ctx)
	if err != nil || data == nil {
		logger.Warn("playlist store reload failed", logger.ErrorField(err))
		return
	}
	if data.Playlists == nil {
		data.Playlists = make(map[string]*model.Playlist)
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if err := m.repo.Save(ctx, m.data); err != nil {
		return fmt.Errorf("failed to persist playlist store: %w", err)
	}
	return nil
}

// Create adds a new empty playlist. A blank name or a name that already
// exists is silently ignored.
func (m *Manager) Create(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data.ByName(name) != nil {
		return nil
	}

	p := &model.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		TrackIDs:  []string{},
		CreatedAt: time.Now(),
	}
	m.data.Playlists[p.ID] = p
	return m.persistLocked(ctx)
}

// Delete removes a playlist. Deleting the active playlist also clears the
// active selection.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data.Playlists[id]; !ok {
		return nil
	}
	delete(m.data.Playlists, id)
	if m.data.ActiveID == id {
		m.data.ActiveID = ""
	}
	return m.persistLocked(ctx)
}

// AddTrack appends a track to a playlist, ignoring duplicates.
func (m *Manager) AddTrack(ctx context.Context, playlistID, trackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.data.Playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s not found", playlistID)
	}
	if p.Contains(trackID) {
		return nil
	}
	p.TrackIDs = append(p.TrackIDs, trackID)
	return m.persistLocked(ctx)
}

// RemoveTrack removes a track from a playlist.
func (m *Manager) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.data.Playlists[playlistID]
	if !ok {
		return fmt.Errorf("playlist %s not found", playlistID)
	}

	kept := p.TrackIDs[:0]
	for _, id := range p.TrackIDs {
		if id != trackID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(p.TrackIDs) {
		return nil
	}
	p.TrackIDs = kept
	return m.persistLocked(ctx)
}

// ensureSystemLocked returns the implicit playlist with the given reserved ID,
// creating it when absent. Caller holds the lock.
func (m *Manager) ensureSystemLocked(id, name string) *model.Playlist {
	if p, ok := m.data.Playlists[id]; ok {
		return p
	}
	p := &model.Playlist{
		ID:        id,
		Name:      name,
		TrackIDs:  []string{},
		CreatedAt: time.Now(),
	}
	m.data.Playlists[id] = p
	return p
}

// RecordRecentlyPlayed prepends the track to Recently Played, de-duplicated
// and capped at the most recent entries.
func (m *Manager) RecordRecentlyPlayed(ctx context.Context, trackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.ensureSystemLocked(RecentlyPlayedID, model.RecentlyPlayedPlaylist)

	ids := make([]string, 0, len(recent.TrackIDs)+1)
	ids = append(ids, trackID)
	for _, id := range recent.TrackIDs {
		if id != trackID {
			ids = append(ids, id)
		}
	}
	if len(ids) > model.RecentlyPlayedCap {
		ids = ids[:model.RecentlyPlayedCap]
	}
	recent.TrackIDs = ids
	return m.persistLocked(ctx)
}

// ToggleFavorite adds or removes the track from Favorites and reports whether
// it is a favorite afterwards.
func (m *Manager) ToggleFavorite(ctx context.Context, trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	favorites := m.ensureSystemLocked(FavoritesID, model.FavoritesPlaylist)

	if favorites.Contains(trackID) {
		kept := favorites.TrackIDs[:0]
		for _, id := range favorites.TrackIDs {
			if id != trackID {
				kept = append(kept, id)
			}
		}
		favorites.TrackIDs = kept
		return false, m.persistLocked(ctx)
	}

	favorites.TrackIDs = append(favorites.TrackIDs, trackID)
	return true, m.persistLocked(ctx)
}

// SetActive records which playlist the player currently draws from. An empty
// ID clears the selection.
func (m *Manager) SetActive(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if _, ok := m.data.Playlists[id]; !ok {
			return fmt.Errorf("playlist %s not found", id)
		}
	}
	m.data.ActiveID = id
	return m.persistLocked(ctx)
}

// Get returns a copy of one playlist, nil when absent.
func (m *Manager) Get(id string) *model.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.data.Playlists[id]
	if !ok {
		return nil
	}
	return copyPlaylist(p)
}

// ActiveID returns the current active playlist selection.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ActiveID
}

// List returns copies of all playlists, system playlists first, the rest by
// creation time.
func (m *Manager) List() []*model.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Playlist, 0, len(m.data.Playlists))
	for _, p := range m.data.Playlists {
		out = append(out, copyPlaylist(p))
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := systemRank(out[i].ID), systemRank(out[j].ID)
		if si != sj {
			return si < sj
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func systemRank(id string) int {
	switch id {
	case FavoritesID:
		return 0
	case RecentlyPlayedID:
		return 1
	default:
		return 2
	}
}

func copyPlaylist(p *model.Playlist) *model.Playlist {
	ids := make([]string, len(p.TrackIDs))
	copy(ids, p.TrackIDs)
	return &model.Playlist{ID: p.ID, Name: p.Name, TrackIDs: ids, CreatedAt: p.CreatedAt}
}
