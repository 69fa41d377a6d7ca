package httpapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Presence message types.
const (
	MsgJoin   = "join"
	MsgChat   = "chat"
	MsgOnline = "online"
)

// PresenceMessage is the frame exchanged on the presence socket. Clients
// send join and chat frames; the server broadcasts chat and online frames.
type PresenceMessage struct {
	Type  string   `json:"type"`
	Name  string   `json:"name,omitempty"`
	Text  string   `json:"text,omitempty"`
	Users []string `json:"users,omitempty"`
}

type presenceClient struct {
	name string
	conn *websocket.Conn
	send chan PresenceMessage
}

// Hub tracks connected presence clients keyed by user name. A second join
// with the same name replaces the earlier connection.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*presenceClient
	upgrader websocket.Upgrader
}

// NewHub creates an empty presence hub.
func NewHub() *Hub {
	return &Hub{
		clients: map[string]*presenceClient{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// First frame must be a join carrying the user name.
	var join PresenceMessage
	if err := conn.ReadJSON(&join); err != nil || join.Type != MsgJoin || join.Name == "" {
		_ = conn.Close()
		return
	}

	client := &presenceClient{
		name: join.Name,
		conn: conn,
		send: make(chan PresenceMessage, 16),
	}
	h.register(client)
	h.broadcastOnline()

	go client.writeLoop()
	h.readLoop(client)

	h.unregister(client)
	h.broadcastOnline()
}

func (h *Hub) register(c *presenceClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.clients[c.name]; ok {
		close(prev.send)
		_ = prev.conn.Close()
	}
	h.clients[c.name] = c
}

func (h *Hub) unregister(c *presenceClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.name] == c {
		delete(h.clients, c.name)
		close(c.send)
	}
	_ = c.conn.Close()
}

func (h *Hub) readLoop(c *presenceClient) {
	for {
		var msg PresenceMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == MsgChat {
			h.broadcast(PresenceMessage{Type: MsgChat, Name: c.name, Text: msg.Text})
		}
	}
}

// broadcastOnline sends the current user list to everyone.
func (h *Hub) broadcastOnline() {
	h.mu.Lock()
	users := make([]string, 0, len(h.clients))
	for name := range h.clients {
		users = append(users, name)
	}
	h.mu.Unlock()
	h.broadcast(PresenceMessage{Type: MsgOnline, Users: users})
}

func (h *Hub) broadcast(msg PresenceMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop the frame rather than block the hub.
		}
	}
}

func (c *presenceClient) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// Online returns the names currently connected, for diagnostics.
func (h *Hub) Online() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	users := make([]string, 0, len(h.clients))
	for name := range h.clients {
		users = append(users, name)
	}
	return users
}
