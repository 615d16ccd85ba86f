package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/analytics"
	"github.com/pitchside/matchtrack/internal/app/tracker"
	"github.com/pitchside/matchtrack/internal/domains/dtos"
	"github.com/pitchside/matchtrack/internal/domains/entities"
	"github.com/pitchside/matchtrack/internal/storage"
	"github.com/pitchside/matchtrack/pkg/logging"
)

type server struct {
	address  string
	upgrader websocket.Upgrader

	config Config
	store  *tracker.Store
	engine *analytics.Engine

	mu    sync.Mutex
	conns map[*connection]struct{}
}

// connection wraps a websocket with a write lock, since the store's
// subscriber callback and the per-connection error path both write.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func NewServer() *server {
	cfg := NewConfig()

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.StoragePath)
	if err != nil {
		panic(err)
	}
	storageClient, err := storage.NewClient(ctx, db)
	if err != nil {
		panic(err)
	}

	store := tracker.NewStore(tracker.Options{Persistence: storageClient})
	snap, err := storageClient.LoadSnapshot(ctx)
	switch {
	case err == nil:
		store.Restore(snap)
		logging.Info("state restored", zap.Int("history_size", len(snap.History)))
	case errors.Is(err, storage.ErrSnapshotNotFound):
		logging.Info("starting with empty state")
	default:
		logging.Error("failed to load snapshot", zap.Error(err))
	}

	srv := &server{
		address: "0.0.0.0:" + cfg.Port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		config: cfg,
		store:  store,
		engine: analytics.NewEngine(),
		conns:  make(map[*connection]struct{}),
	}
	store.Subscribe(func(snap entities.Snapshot) {
		srv.broadcast(dtos.StateResponse{Type: "state", State: snap})
	})
	return srv
}

// Start method    starts the tracker server
func (s *server) Start() error {
	logging.Info("tracker server started", zap.String("port", s.config.Port))
	httpServer := &http.Server{
		Addr:        s.address,
		Handler:     s.routes(),
		IdleTimeout: s.config.IdleTimeout,
	}
	return httpServer.ListenAndServe()
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWebSocket)
	r.Get("/api/clock", s.handleClock)
	r.Get("/api/stats/season", s.handleSeasonStats)
	r.Get("/api/stats/match/{matchId}", s.handleMatchStats)
	r.Get("/api/stats/player/{name}", s.handlePlayerStats)

	return r
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(
			"failed to upgrade connection",
			zap.String("error", err.Error()),
		)
		return
	}
	defer conn.Close()

	c := &connection{conn: conn}
	s.addConnection(c)
	defer s.removeConnection(c)

	// New subscribers start from the current state.
	if err := c.writeJSON(dtos.StateResponse{Type: "state", State: s.store.Snapshot()}); err != nil {
		logging.Error("failed to send initial state", zap.Error(err))
		return
	}
	logging.Info("client connected", zap.String("remote_address", conn.RemoteAddr().String()))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			logging.Info(
				"connection closed",
				zap.String("remote_address", conn.RemoteAddr().String()),
				zap.Error(err),
			)
			break
		}
		s.handleCommand(c, message)
	}
}

func (s *server) addConnection(c *connection) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *server) removeConnection(c *connection) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *server) broadcast(resp dtos.StateResponse) {
	s.mu.Lock()
	conns := make([]*connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		if err := c.writeJSON(resp); err != nil {
			logging.Error("couldn't notify client", zap.Error(err))
		}
	}
}
