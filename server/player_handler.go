package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
	"github.com/VYD3N/tezos-music-player/store"
)

// PlayerStateHandler returns the current playback session snapshot.
func (h *APIHandler) PlayerStateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// LoadTrackHandler switches the session to the requested track and records it
// in the recently-played list.
func (h *APIHandler) LoadTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackID string `json:"trackId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	track := h.client.GetByID(r.Context(), req.TrackID)
	if track == nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return
	}

	h.controller.SetTrack(track)
	if err := h.playlists.RecordRecentlyPlayed(r.Context(), track.ID); err != nil {
		logger.Warn("failed to record recently played",
			logger.String("trackId", track.ID), logger.ErrorField(err))
	}
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// PlayHandler starts or resumes playback of the current track.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.Play()
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// PauseHandler pauses playback. A pending load keeps running.
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.Pause()
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// NextTrackHandler advances the session to the next track in the queue.
func (h *APIHandler) NextTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.stepQueue(r.Context(), 1)
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// PreviousTrackHandler moves the session to the previous track in the queue.
func (h *APIHandler) PreviousTrackHandler(w http.ResponseWriter, r *http.Request) {
	h.stepQueue(r.Context(), -1)
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// TrackEndedHandler reports that the front end finished the current track
// naturally. The controller's end callback advances the queue.
func (h *APIHandler) TrackEndedHandler(w http.ResponseWriter, r *http.Request) {
	h.controller.Ended()
	writeJSON(w, http.StatusOK, h.controller.Snapshot())
}

// queue returns the track list the player steps through: the active playlist
// when one is selected, otherwise the last catalog snapshot.
func (h *APIHandler) queue(ctx context.Context) []*model.Track {
	if id := h.playlists.ActiveID(); id != "" {
		if pl := h.playlists.Get(id); pl != nil {
			tracks := make([]*model.Track, 0, len(pl.TrackIDs))
			for _, trackID := range pl.TrackIDs {
				if t := h.client.GetByID(ctx, trackID); t != nil {
					tracks = append(tracks, t)
				}
			}
			return tracks
		}
	}
	return h.client.Snapshot()
}

// stepQueue moves the session by delta positions, wrapping at both ends.
// Unplayable tracks are skipped so one dead entry cannot stall the queue.
func (h *APIHandler) stepQueue(ctx context.Context, delta int) {
	queue := h.queue(ctx)
	if len(queue) == 0 {
		return
	}

	current := h.controller.Track()
	pos := -1
	if current != nil {
		for i, t := range queue {
			if t.ID == current.ID {
				pos = i
				break
			}
		}
	}
	if pos == -1 && delta < 0 {
		// Stepping back from nothing lands on the last track, the same way
		// stepping forward lands on the first.
		pos = 0
	}

	for step := 1; step <= len(queue); step++ {
		next := queue[((pos+delta*step)%len(queue)+len(queue))%len(queue)]
		if !next.Playable() {
			continue
		}
		h.controller.SetTrack(next)
		if err := h.playlists.RecordRecentlyPlayed(ctx, next.ID); err != nil {
			logger.Warn("failed to record recently played",
				logger.String("trackId", next.ID), logger.ErrorField(err))
		}
		return
	}
}

// advanceAfterEnd restarts playback on the next queue track after a natural
// end. Wired as the controller's end callback.
func (h *APIHandler) advanceAfterEnd() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.stepQueue(ctx, 1)
	if h.controller.Track() != nil {
		h.controller.Play()
	}
}

// RecentlyPlayedHandler returns the recently-played list as full tracks,
// newest first.
func (h *APIHandler) RecentlyPlayedHandler(w http.ResponseWriter, r *http.Request) {
	recent := h.playlists.Get(store.RecentlyPlayedID)
	tracks := make([]*model.Track, 0, model.RecentlyPlayedCap)
	if recent != nil {
		for _, trackID := range recent.TrackIDs {
			if t := h.client.GetByID(r.Context(), trackID); t != nil {
				tracks = append(tracks, t)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}
