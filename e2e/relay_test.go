package e2e_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/chatrelay/internal/api"
	"github.com/relayhq/chatrelay/internal/factory"
)

// wireEvent mirrors the websocket event format for both directions
type wireEvent struct {
	Type      string   `json:"type"`
	Username  string   `json:"username,omitempty"`
	Users     []string `json:"users,omitempty"`
	Text      string   `json:"text,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// relayServer runs the full HTTP stack against a real listener
type relayServer struct {
	*httptest.Server
}

func newRelayServer(t *testing.T) *relayServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		StatusService: app.Status,
		WSHandler:     app.WSHandler,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		app.Hub.Shutdown()
		srv.Close()
	})

	return &relayServer{Server: srv}
}

func (s *relayServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
}

// session wraps one websocket client connection
type session struct {
	t    *testing.T
	conn *websocket.Conn
}

func (s *relayServer) connect(t *testing.T) *session {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(s.wsURL(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &session{t: t, conn: conn}
}

func (c *session) send(event wireEvent) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(event))
}

// recv reads the next event with a deadline so a missing event fails fast
func (c *session) recv() wireEvent {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var event wireEvent
	require.NoError(c.t, c.conn.ReadJSON(&event))
	return event
}

func (c *session) join(username string) wireEvent {
	c.t.Helper()
	c.send(wireEvent{Type: "join", Username: username})
	return c.recv()
}

func TestJoinAndPresenceFlow(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	ev := alice.join("Alice")
	assert.Equal(t, "join-succeeded", ev.Type)
	assert.Equal(t, "Alice", ev.Username)
	assert.Equal(t, []string{"Alice"}, ev.Users)

	bob := srv.connect(t)
	ev = bob.join("Bob")
	assert.Equal(t, "join-succeeded", ev.Type)
	assert.Equal(t, []string{"Alice", "Bob"}, ev.Users)

	// Alice sees Bob's arrival with the identical user list
	ev = alice.recv()
	assert.Equal(t, "user-joined", ev.Type)
	assert.Equal(t, "Bob", ev.Username)
	assert.Equal(t, []string{"Alice", "Bob"}, ev.Users)
}

func TestJoinRejectsDuplicateUsername(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	_ = alice.join("Alice")

	mallory := srv.connect(t)
	ev := mallory.join("ALICE")
	assert.Equal(t, "join-failed", ev.Type)
	assert.Equal(t, "username already taken", ev.Error)

	// The session may retry with a different name
	ev = mallory.join("Mallory")
	assert.Equal(t, "join-succeeded", ev.Type)
	assert.Equal(t, []string{"Alice", "Mallory"}, ev.Users)
}

func TestJoinRejectsInvalidUsername(t *testing.T) {
	srv := newRelayServer(t)

	conn := srv.connect(t)
	ev := conn.join("x")
	assert.Equal(t, "join-failed", ev.Type)
	assert.Contains(t, ev.Error, "between 2 and 20 characters")
}

func TestChatMessageReachesEveryoneIncludingSender(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	_ = alice.join("Alice")
	bob := srv.connect(t)
	_ = bob.join("Bob")
	_ = alice.recv() // Bob's user-joined

	alice.send(wireEvent{Type: "message", Text: "hello everyone"})

	for _, c := range []*session{alice, bob} {
		ev := c.recv()
		assert.Equal(t, "message", ev.Type)
		assert.Equal(t, "Alice", ev.Username)
		assert.Equal(t, "hello everyone", ev.Text)
		assert.NotEmpty(t, ev.Timestamp)
	}
}

func TestMessageBeforeJoinFails(t *testing.T) {
	srv := newRelayServer(t)

	conn := srv.connect(t)
	conn.send(wireEvent{Type: "message", Text: "hello"})

	ev := conn.recv()
	assert.Equal(t, "join-failed", ev.Type)
	assert.Equal(t, "join the chat first", ev.Error)
}

func TestLeaveAnnouncesDepartureAndFreesName(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	_ = alice.join("Alice")
	bob := srv.connect(t)
	_ = bob.join("Bob")
	_ = alice.recv() // Bob's user-joined

	alice.send(wireEvent{Type: "leave"})

	ev := bob.recv()
	assert.Equal(t, "user-left", ev.Type)
	assert.Equal(t, "Alice", ev.Username)
	assert.Equal(t, []string{"Bob"}, ev.Users)

	// The name is free again for a new session
	newcomer := srv.connect(t)
	ev = newcomer.join("alice")
	assert.Equal(t, "join-succeeded", ev.Type)
}

func TestDisconnectAnnouncesDeparture(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	_ = alice.join("Alice")
	bob := srv.connect(t)
	_ = bob.join("Bob")
	_ = alice.recv() // Bob's user-joined

	require.NoError(t, alice.conn.Close())

	ev := bob.recv()
	assert.Equal(t, "user-left", ev.Type)
	assert.Equal(t, "Alice", ev.Username)
}

func TestStatsEndpointTracksSessions(t *testing.T) {
	srv := newRelayServer(t)

	alice := srv.connect(t)
	_ = alice.join("Alice")
	bob := srv.connect(t)
	_ = bob.join("Bob")

	resp, err := http.Get(srv.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		ConnectedUsers int      `json:"connected_users"`
		Usernames      []string `json:"usernames"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))

	assert.Equal(t, 2, stats.ConnectedUsers)
	assert.Equal(t, []string{"Alice", "Bob"}, stats.Usernames)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newRelayServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
