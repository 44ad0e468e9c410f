package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func (h *Hub) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/games", h.handleGames).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}", h.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/ws", h.handleWatch).Methods(http.MethodGet)
	r.HandleFunc("/scores", h.handleScores).Methods(http.MethodGet)
	return r
}

func (h *Hub) handleGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Games())
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	src, ok := h.lookup(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "game not found"})
		return
	}
	writeJSON(w, http.StatusOK, src.Snapshot())
}

func (h *Hub) handleScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeJSON(w, http.StatusOK, []storage.HighScore{})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	table, err := h.scores.TopScores(ctx)
	if err != nil {
		h.logger.Warn("could not read high scores", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scores unavailable"})
		return
	}
	if table == nil {
		table = []storage.HighScore{}
	}
	writeJSON(w, http.StatusOK, table)
}

// handleWatch upgrades to a WebSocket and pushes every snapshot of the
// game until the game ends its stream or the spectator disconnects.
func (h *Hub) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	src, ok := h.lookup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "game not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.logger.Info("spectator joined", "game", id, "remote", r.RemoteAddr)

	snaps, unsubscribe := src.Subscribe()
	defer unsubscribe()

	gone := make(chan struct{})
	go readPump(conn, gone)
	writePump(conn, snaps, gone)

	h.logger.Info("spectator left", "game", id, "remote", r.RemoteAddr)
}

// readPump discards client frames and handles pongs; it closes gone when
// the connection drops.
func readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, snaps <-chan tetris.Snapshot, gone <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case s, ok := <-snaps:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game ended"))
				return
			}
			if err := conn.WriteJSON(s); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
