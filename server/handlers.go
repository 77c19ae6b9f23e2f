package server

import (
	"encoding/json"
	"net/http"

	"github.com/VYD3N/tezos-music-player/config"
	"github.com/VYD3N/tezos-music-player/core/catalog"
	"github.com/VYD3N/tezos-music-player/core/compose"
	"github.com/VYD3N/tezos-music-player/core/player"
	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/store"
)

// APIHandler handles all API requests.
type APIHandler struct {
	client     *catalog.Client
	composer   *compose.Composer
	playlists  *store.Manager
	controller *player.Controller
	hub        *wsHub
	cfg        *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	client *catalog.Client,
	composer *compose.Composer,
	playlists *store.Manager,
	controller *player.Controller,
	cfg *config.Config,
) *APIHandler {
	h := &APIHandler{
		client:     client,
		composer:   composer,
		playlists:  playlists,
		controller: controller,
		hub:        newWSHub(),
		cfg:        cfg,
	}

	controller.OnStateChange(h.hub.Broadcast)
	controller.OnError(func(err error) {
		logger.Warn("playback error surfaced to clients", logger.ErrorField(err))
	})
	controller.OnEnded(h.advanceAfterEnd)

	return h
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}
