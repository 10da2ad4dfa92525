package chat_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	router "chat-relay/internal/adapters/http"
	"chat-relay/internal/app"
	"chat-relay/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Mode:         "release",
		ReadLimit:    32768,
		PingPeriod:   50 * time.Second,
		WriteTimeout: 5 * time.Second,
		RateLimit:    100,
		RateInterval: time.Second,
		Secret:       "test-secret",
	}
	gw := app.NewGateway(app.NewMessageStore(), app.NewRegistry(), app.NewRooms())
	srv := httptest.NewServer(router.SetupRouter(context.Background(), cfg, gw))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/chat"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, data))
}

// waitOnlineUsers reads presence broadcasts until one carries exactly n
// entries.
func waitOnlineUsers(t *testing.T, ws *websocket.Conn, n int) []any {
	t.Helper()
	for {
		ev := readEvent(t, ws, "onlineUsers")
		users, ok := ev["users"].([]any)
		require.True(t, ok)
		if len(users) == n {
			return users
		}
	}
}

// readEvent reads frames until one matches the wanted type, skipping
// interleaved broadcasts.
func readEvent(t *testing.T, ws *websocket.Conn, typ string) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err)
		var ev map[string]any
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev["type"] == typ {
			return ev
		}
	}
}

func TestRoomFlowOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ws1 := dial(t, srv)
	ws2 := dial(t, srv)

	send(t, ws1, map[string]any{"type": "join", "name": "bob", "room": "lobby"})
	joined := readEvent(t, ws1, "messages")
	require.Equal(t, "lobby", joined["room"])
	require.Empty(t, joined["messages"])

	// The presence broadcast precedes the join reply on the joining
	// connection, so consume onlineUsers first.
	send(t, ws2, map[string]any{"type": "join", "name": "carol", "room": "lobby"})
	users := waitOnlineUsers(t, ws2, 2)
	require.Equal(t, "carol", users[1].(map[string]any)["name"])
	readEvent(t, ws2, "messages")

	send(t, ws1, map[string]any{"type": "createMessage", "text": "hi", "room": "lobby", "senderId": "ws1"})

	for _, ws := range []*websocket.Conn{ws1, ws2} {
		ev := readEvent(t, ws, "message")
		msg, ok := ev["message"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "hi", msg["text"])
		require.Equal(t, "bob", msg["senderName"])
		require.Equal(t, "lobby", msg["room"])
	}

	created := readEvent(t, ws1, "messageCreated")
	msg, ok := created["message"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "hi", msg["text"])

	send(t, ws2, map[string]any{"type": "findAllMessages", "room": "lobby"})
	history := readEvent(t, ws2, "messages")
	msgs, ok := history["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
}

func TestDirectMessageOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ws1 := dial(t, srv)
	ws2 := dial(t, srv)

	send(t, ws1, map[string]any{"type": "join", "name": "dave", "room": "alpha"})
	readEvent(t, ws1, "messages")
	send(t, ws2, map[string]any{"type": "join", "name": "erin", "room": "beta"})
	readEvent(t, ws2, "messages")

	send(t, ws1, map[string]any{"type": "createMessage", "text": "hey", "recipientName": "erin", "senderId": "ws1"})

	private := readEvent(t, ws2, "privateMessage")
	msg, ok := private["message"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "hey", msg["text"])
	require.Equal(t, "dave", msg["senderName"])

	note := readEvent(t, ws2, "newDirectMessageNotification")
	require.Equal(t, "hey", note["message"])
	require.Equal(t, "dave", note["from"])

	readEvent(t, ws1, "privateMessage")

	send(t, ws1, map[string]any{"type": "findMessagesBetweenUsers", "senderName": "erin", "recipientName": "dave"})
	conversation := readEvent(t, ws1, "directMessages")
	msgs, ok := conversation["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
}

func TestLeaveRoomDropsPresenceOverWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ws1 := dial(t, srv)
	ws2 := dial(t, srv)

	send(t, ws1, map[string]any{"type": "join", "name": "alice", "room": "general"})
	readEvent(t, ws1, "messages")
	send(t, ws2, map[string]any{"type": "join", "name": "bob", "room": "general"})
	readEvent(t, ws2, "messages")

	send(t, ws1, map[string]any{"type": "leaveRoom", "room": "general"})

	for {
		users := waitOnlineUsers(t, ws2, 1)
		user, ok := users[0].(map[string]any)
		require.True(t, ok)
		if user["name"] == "bob" {
			return
		}
	}
}

func TestPingPong(t *testing.T) {
	srv := newTestServer(t)
	ws := dial(t, srv)
	send(t, ws, map[string]any{"type": "ping"})
	readEvent(t, ws, "pong")
}
