package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/matchtrack/internal/analytics"
	"github.com/pitchside/matchtrack/internal/app/tracker"
	"github.com/pitchside/matchtrack/internal/domains/dtos"
	"github.com/pitchside/matchtrack/internal/domains/entities"
)

// envelope covers both state and error payloads coming off the socket.
type envelope struct {
	Type  string            `json:"type"`
	State entities.Snapshot `json:"state"`
	Error string            `json:"error"`
}

func newTestServer(t *testing.T) *server {
	t.Helper()
	store := tracker.NewStore(tracker.Options{})
	srv := &server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		store:  store,
		engine: analytics.NewEngine(),
		conns:  make(map[*connection]struct{}),
	}
	store.Subscribe(func(snap entities.Snapshot) {
		srv.broadcast(dtos.StateResponse{Type: "state", State: snap})
	})
	return srv
}

func dialWebSocket(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmdType string, data any) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		require.NoError(t, err)
		raw = encoded
	}
	require.NoError(t, conn.WriteJSON(dtos.Command{Type: cmdType, Data: raw}))
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestWebSocketCommandFlow(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	conn := dialWebSocket(t, ts)

	initial := readEnvelope(t, conn)
	assert.Equal(t, "state", initial.Type)
	assert.Nil(t, initial.State.Active)

	sendCommand(t, conn, "start_game", dtos.StartGameRequest{OpponentName: "Riverside"})
	env := readEnvelope(t, conn)
	require.Equal(t, "state", env.Type)
	require.NotNil(t, env.State.Active)
	assert.Equal(t, "Riverside", env.State.Active.OpponentName)

	sendCommand(t, conn, "add_event", dtos.AddEventRequest{
		Type:  entities.EventGoal,
		Team:  entities.TeamUs,
		Label: "Alex",
	})
	env = readEnvelope(t, conn)
	require.NotNil(t, env.State.Active)
	assert.Equal(t, 1, env.State.Active.MyScore)
	assert.Contains(t, env.State.Roster, "Alex")

	sendCommand(t, conn, "finish_game", nil)
	env = readEnvelope(t, conn)
	assert.Nil(t, env.State.Active)
	assert.Len(t, env.State.History, 1)
}

func TestWebSocketErrorsKeepConnectionOpen(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	conn := dialWebSocket(t, ts)
	readEnvelope(t, conn) // initial state

	// No active match yet: the store rejects the event.
	sendCommand(t, conn, "add_event", dtos.AddEventRequest{
		Type: entities.EventGoal,
		Team: entities.TeamUs,
	})
	env := readEnvelope(t, conn)
	assert.Equal(t, "error", env.Type)
	assert.Contains(t, env.Error, "no active match")

	sendCommand(t, conn, "open_pod_bay_doors", nil)
	env = readEnvelope(t, conn)
	assert.Equal(t, "error", env.Type)

	// The socket still works after errors.
	sendCommand(t, conn, "start_game", dtos.StartGameRequest{OpponentName: "Riverside"})
	env = readEnvelope(t, conn)
	assert.Equal(t, "state", env.Type)
}

func seedHistory(t *testing.T, store *tracker.Store) string {
	t.Helper()
	_, err := store.StartGame("Riverside")
	require.NoError(t, err)
	_, err = store.AddEvent(entities.EventGoal, entities.TeamUs, "Alex", entities.EventMeta{})
	require.NoError(t, err)
	store.FinishGame()
	return store.History()[0].Id
}

func TestSeasonStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedHistory(t, srv.store)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats/season", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var season analytics.SeasonStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&season))
	assert.Equal(t, 1, season.Games)
	assert.Equal(t, 1, season.Wins)
	assert.Equal(t, 1, season.CleanSheets)
}

func TestMatchStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	matchId := seedHistory(t, srv.store)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats/match/"+matchId, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats analytics.GameStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, matchId, stats.MatchId)
	assert.Equal(t, 1, stats.Basic.My.Goals)

	req = httptest.NewRequest(http.MethodGet, "/api/stats/match/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayerStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedHistory(t, srv.store)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/stats/player/Alex", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats analytics.PlayerStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Goals)
	assert.Equal(t, 1, stats.GamesPlayed)
}

func TestClockEndpoint(t *testing.T) {
	srv := newTestServer(t)
	_, err := srv.store.StartGame("Riverside")
	require.NoError(t, err)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/clock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var clock dtos.ClockResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&clock))
	assert.False(t, clock.IsRunning)
	assert.Equal(t, int64(0), clock.ElapsedMs)
	assert.Equal(t, "0:00", clock.Display)
	assert.Equal(t, "00:00:00", clock.Export)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
