package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// ListPlaylistsHandler returns every playlist, system lists first.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.playlists.List(),
		"activeId":  h.playlists.ActiveID(),
	})
}

// CreatePlaylistHandler creates a named playlist. Blank or duplicate names
// are silently ignored, matching the store contract.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.playlists.Create(r.Context(), req.Name); err != nil {
		http.Error(w, "Failed to save playlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.playlists.List(),
	})
}

// DeletePlaylistHandler removes a playlist and clears the active selection
// when it pointed at the deleted list.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.playlists.Delete(r.Context(), vars["id"]); err != nil {
		http.Error(w, "Failed to delete playlist", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlists": h.playlists.List(),
		"activeId":  h.playlists.ActiveID(),
	})
}

// AddPlaylistTrackHandler appends a track to a playlist; duplicates are
// ignored.
func (h *APIHandler) AddPlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.playlists.AddTrack(r.Context(), vars["id"], vars["trackId"]); err != nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": h.playlists.Get(vars["id"]),
	})
}

// RemovePlaylistTrackHandler removes a track from a playlist.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.playlists.RemoveTrack(r.Context(), vars["id"], vars["trackId"]); err != nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": h.playlists.Get(vars["id"]),
	})
}

// SetActivePlaylistHandler selects the playlist the player draws from. An
// empty id clears the selection.
func (h *APIHandler) SetActivePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.playlists.SetActive(r.Context(), req.ID); err != nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activeId": h.playlists.ActiveID(),
	})
}

// ToggleFavoriteHandler flips the track's membership in Favorites.
func (h *APIHandler) ToggleFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	favorite, err := h.playlists.ToggleFavorite(r.Context(), vars["trackId"])
	if err != nil {
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trackId":  vars["trackId"],
		"favorite": favorite,
	})
}
