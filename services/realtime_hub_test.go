package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialHub starts a server that registers every socket for userID and returns
// the client side of one connection.
func dialHub(t *testing.T, hub *RealtimeHub, userID uint) *websocket.Conn {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(&WSClient{UserID: userID, Conn: conn})
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections(userID) > 0 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestRealtimeHubBroadcast(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub, 7)
	other := dialHub(t, hub, 8)

	sent, err := hub.BroadcastAlert(7, map[string]any{"kind": "alert.created", "id": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "alert.created", msg["kind"])

	// user 8 got nothing
	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestRealtimeHubUnregister(t *testing.T) {
	hub := NewRealtimeHub()
	up := websocket.Upgrader{}
	registered := make(chan *WSClient, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &WSClient{UserID: 3, Conn: conn}
		hub.Register(c)
		registered <- c
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	c := <-registered
	assert.Equal(t, 1, hub.Connections(3))
	hub.Unregister(c)
	assert.Equal(t, 0, hub.Connections(3))

	sent, err := hub.BroadcastAlert(3, map[string]string{"kind": "alert.created"})
	require.NoError(t, err)
	assert.Zero(t, sent)

	_, err = hub.BroadcastAlert(3, make(chan int))
	assert.Error(t, err)
}
