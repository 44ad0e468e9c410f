// Package stream publishes live games to spectators over HTTP. Each game
// attached to the Hub can be polled as JSON or followed over a WebSocket
// that pushes every new snapshot.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Source is a running game that can be watched.
type Source interface {
	Snapshot() tetris.Snapshot
	Subscribe() (<-chan tetris.Snapshot, func())
}

// ScoreReader supplies the high-score table served at /scores.
type ScoreReader interface {
	TopScores(ctx context.Context) ([]storage.HighScore, error)
}

// GameInfo describes a live game in the /games listing.
type GameInfo struct {
	ID      string       `json:"id"`
	Player  string       `json:"player"`
	Started time.Time    `json:"started"`
	State   tetris.State `json:"state"`
	Score   int          `json:"score"`
	Level   int          `json:"level"`
}

type entry struct {
	info GameInfo
	src  Source
}

// Hub tracks live games and serves them to spectators.
type Hub struct {
	mu     sync.RWMutex
	games  map[string]*entry
	scores ScoreReader
	logger *log.Logger

	upgrader websocket.Upgrader
	router   *mux.Router
}

// NewHub creates a hub. scores may be nil, in which case /scores is empty.
func NewHub(scores ScoreReader, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Hub{
		games:  make(map[string]*entry),
		scores: scores,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	h.router = h.routes()
	return h
}

// Attach registers a live game and returns its id and a function that
// removes it again. Spectators already connected keep streaming until the
// game's snapshot channel closes.
func (h *Hub) Attach(player string, src Source) (string, func()) {
	id := uuid.NewString()
	h.mu.Lock()
	h.games[id] = &entry{
		info: GameInfo{ID: id, Player: player, Started: time.Now()},
		src:  src,
	}
	h.mu.Unlock()
	h.logger.Debug("game attached", "id", id, "player", player)

	var once sync.Once
	return id, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.games, id)
			h.mu.Unlock()
			h.logger.Debug("game detached", "id", id)
		})
	}
}

// Games lists the live games, oldest first.
func (h *Hub) Games() []GameInfo {
	h.mu.RLock()
	out := make([]GameInfo, 0, len(h.games))
	for _, e := range h.games {
		info := e.info
		s := e.src.Snapshot()
		info.State, info.Score, info.Level = s.State, s.Score, s.Level
		out = append(out, info)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Started.Before(out[j].Started)
	})
	return out
}

func (h *Hub) lookup(id string) (Source, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.games[id]
	if !ok {
		return nil, false
	}
	return e.src, true
}

// Handler returns the HTTP routes of the hub.
func (h *Hub) Handler() http.Handler {
	return h.router
}

// ListenAndServe serves the hub on addr until ctx is canceled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("spectator server listening", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
