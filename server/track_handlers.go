package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
)

// GetTracksHandler returns the full normalized catalog. A broken backend
// degrades to an empty list, never an error response.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks := h.client.FetchAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// SearchTracksHandler handles free-text search composed with optional sort.
// GET /api/tracks/search?q=...&fields=title,artist&sortBy=title&sortDir=asc
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	state := model.FilterState{
		Query:   q.Get("q"),
		SortBy:  q.Get("sortBy"),
		SortDir: q.Get("sortDir"),
	}
	if fields := q.Get("fields"); fields != "" {
		state.Fields = strings.Split(fields, ",")
	}

	tracks := h.composer.Compose(r.Context(), state)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// FilterTracksHandler composes the track list from a full FilterState body.
// POST /api/tracks/filter
func (h *APIHandler) FilterTracksHandler(w http.ResponseWriter, r *http.Request) {
	var state model.FilterState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tracks := h.composer.Compose(r.Context(), state)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}

// StreamURLHandler returns the playback URL for one track, null when the
// track is unknown or unplayable.
func (h *APIHandler) StreamURLHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	track := h.client.GetByID(r.Context(), id)
	if track == nil || !track.Playable() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"streamUrl": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"streamUrl": track.AudioURL})
}

// FilterOptionsHandler returns the distinct categorical values for the filter
// UI, derived from the catalog.
func (h *APIHandler) FilterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	tracks := h.client.FetchAll(r.Context())
	if len(tracks) == 0 {
		tracks = h.client.Snapshot()
	}

	distinct := func(get func(*model.Track) string) []string {
		seen := make(map[string]bool)
		var out []string
		for _, t := range tracks {
			v := get(t)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}

	options := map[string][]string{
		"artists":   distinct(func(t *model.Track) string { return t.Artist }),
		"genres":    distinct(func(t *model.Track) string { return t.Genre }),
		"moods":     distinct(func(t *model.Track) string { return t.Mood }),
		"platforms": distinct(func(t *model.Track) string { return t.Platform }),
	}
	if len(options["platforms"]) == 0 {
		// The marketplace set is stable even when the catalog is unreachable.
		options["platforms"] = []string{"HEN", "OBJKT", "VERSUM"}
	}

	logger.Debug("filter options computed",
		logger.Int("artists", len(options["artists"])),
		logger.Int("genres", len(options["genres"])))
	writeJSON(w, http.StatusOK, options)
}
