package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialPresence(t *testing.T, url, name string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(PresenceMessage{Type: MsgJoin, Name: name}))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) PresenceMessage {
	t.Helper()
	var msg PresenceMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPresenceHub(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	alice := dialPresence(t, url, "Alice")
	defer func() { _ = alice.Close() }()

	msg := readFrame(t, alice)
	assert.Equal(t, MsgOnline, msg.Type)
	assert.Equal(t, []string{"Alice"}, msg.Users)

	bob := dialPresence(t, url, "Bob")
	defer func() { _ = bob.Close() }()

	msg = readFrame(t, alice)
	assert.Equal(t, MsgOnline, msg.Type)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, msg.Users)

	// Chat frames are relayed to everyone under the sender's name.
	require.NoError(t, bob.WriteJSON(PresenceMessage{Type: MsgChat, Text: "hello"}))
	msg = readFrame(t, alice)
	assert.Equal(t, MsgChat, msg.Type)
	assert.Equal(t, "Bob", msg.Name)
	assert.Equal(t, "hello", msg.Text)

	// Disconnects drop the user from the online list.
	require.NoError(t, bob.Close())
	for {
		msg = readFrame(t, alice)
		if msg.Type == MsgOnline && len(msg.Users) == 1 {
			break
		}
	}
	assert.Equal(t, []string{"Alice"}, msg.Users)
}

func TestPresenceTakeoverClosesReplacedConn(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	first := dialPresence(t, url, "Alice")
	defer func() { _ = first.Close() }()
	msg := readFrame(t, first)
	assert.Equal(t, MsgOnline, msg.Type)

	// A second join under the same name evicts the first connection
	// outright; the replaced socket must observe the close.
	second := dialPresence(t, url, "Alice")
	defer func() { _ = second.Close() }()
	msg = readFrame(t, second)
	assert.Equal(t, MsgOnline, msg.Type)
	assert.Equal(t, []string{"Alice"}, msg.Users)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame PresenceMessage
		if err := first.ReadJSON(&frame); err != nil {
			break // evicted
		}
	}

	// The surviving connection still receives broadcasts.
	require.NoError(t, second.WriteJSON(PresenceMessage{Type: MsgChat, Text: "still here"}))
	msg = readFrame(t, second)
	assert.Equal(t, MsgChat, msg.Type)
	assert.Equal(t, "still here", msg.Text)
}
