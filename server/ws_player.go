package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/VYD3N/tezos-music-player/core/player"
	"github.com/VYD3N/tezos-music-player/logger"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHub fans playback state transitions out to every connected client.
type wsHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{conns: make(map[*websocket.Conn]struct{})}
}

// Broadcast pushes one playback event to all connected clients. Connections
// that fail to write are dropped.
func (hub *wsHub) Broadcast(event player.Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for conn := range hub.conns {
		if err := conn.WriteJSON(event); err != nil {
			logger.Debug("dropping websocket client", logger.ErrorField(err))
			conn.Close()
			delete(hub.conns, conn)
		}
	}
}

func (hub *wsHub) add(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.conns[conn] = struct{}{}
}

func (hub *wsHub) remove(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.conns[conn]; ok {
		conn.Close()
		delete(hub.conns, conn)
	}
}

// PlayerEventsHandler upgrades the connection and streams playback state
// transitions until the client disconnects. The current snapshot is sent
// immediately so late joiners see the session state.
func (h *APIHandler) PlayerEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	if err := conn.WriteJSON(h.controller.Snapshot()); err != nil {
		logger.Debug("initial snapshot write failed", logger.ErrorField(err))
		conn.Close()
		return
	}

	h.hub.add(conn)
	defer h.hub.remove(conn)

	// Drain client frames so pings and close messages are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
